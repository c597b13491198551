package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func hasFlag(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Lookup(name) != nil
}

func TestLaunchCommandsAcceptFullOptionSet(t *testing.T) {
	flags := []string{
		"batch", "cmd", "image", "name", "docker-path", "docker-image-ver",
		"env-vars", "map-locations", "ssh-keys-dir", "work-dir",
		"xauth-dir", "xsocket-dir",
	}

	for _, cmd := range []*cobra.Command{createCmd, runCmd} {
		for _, name := range flags {
			if !hasFlag(cmd, name) {
				t.Errorf("%s: missing flag --%s", cmd.Name(), name)
			}
		}
	}
}

func TestExecRejectsLaunchOnlyOptions(t *testing.T) {
	accepted := []string{"batch", "cmd", "image", "name", "docker-path", "docker-image-ver"}
	rejected := []string{"env-vars", "map-locations", "ssh-keys-dir", "work-dir", "xauth-dir", "xsocket-dir"}

	for _, name := range accepted {
		if !hasFlag(execCmd, name) {
			t.Errorf("exec: missing flag --%s", name)
		}
	}
	for _, name := range rejected {
		if hasFlag(execCmd, name) {
			t.Errorf("exec: flag --%s should not be registered", name)
		}
	}
}

func TestListAndCleanTakeNoOptions(t *testing.T) {
	for _, cmd := range []*cobra.Command{listCmd, cleanCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Name == "help" {
				return
			}
			t.Errorf("%s: unexpected flag --%s", cmd.Name(), f.Name)
		})
	}
}

func TestGatherOptionsReadsRegisteredFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	addLaunchFlags(cmd)

	args := []string{
		"-d", "qx",
		"-n", "ci",
		"-c", "make",
		"-b",
		"-e", "FOO=bar",
		"-m", "/src:/work/src",
		"-v", "2024.2",
	}
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	opts := gatherOptions(cmd)
	if opts.Alias != "qx" || opts.Name != "ci" || opts.Cmd != "make" {
		t.Errorf("unexpected options: %+v", opts)
	}
	if !opts.Batch {
		t.Error("batch flag not picked up")
	}
	if opts.EnvSpec != "FOO=bar" || opts.MapSpec != "/src:/work/src" {
		t.Errorf("spec options not picked up: %+v", opts)
	}
	if opts.Version != "2024.2" {
		t.Errorf("Version = %q, want 2024.2", opts.Version)
	}
}

func TestGatherOptionsToleratesReducedFlagSet(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	addExecFlags(cmd)

	if err := cmd.Flags().Parse([]string{"-d", "qx"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	opts := gatherOptions(cmd)
	if opts.Alias != "qx" {
		t.Errorf("Alias = %q, want qx", opts.Alias)
	}
	// Unregistered flags read as zero values instead of panicking.
	if opts.MapSpec != "" || opts.EnvSpec != "" || opts.WorkDir != "" {
		t.Errorf("launch-only options should be empty: %+v", opts)
	}
}

func TestUnknownFlagFailsParse(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	addExecFlags(cmd)

	if err := cmd.Flags().Parse([]string{"--map-locations", "/a:/b"}); err == nil {
		t.Error("expected parse error for unregistered flag")
	}
}

// execute runs the root command with args, capturing its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs([]string{})
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRejectedOptionPrintsUsage(t *testing.T) {
	// exec does not register the create/run-only mapping option.
	out, err := execute(t, "exec", "--map-locations", "/a:/b")
	if err == nil {
		t.Fatal("expected error for rejected option")
	}
	if !strings.Contains(err.Error(), "map-locations") {
		t.Errorf("error = %v, want the offending option named", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("output missing usage text:\n%s", out)
	}
}

func TestMissingImageSelectionPrintsUsage(t *testing.T) {
	out, err := execute(t, "exec")
	if err == nil {
		t.Fatal("expected error when neither --image nor --docker-path given")
	}
	if !strings.Contains(err.Error(), "--image") {
		t.Errorf("error = %v, want the missing options named", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("output missing usage text:\n%s", out)
	}
}
