package mounts

import (
	"reflect"
	"testing"
)

func TestTableLastWriteWins(t *testing.T) {
	table := NewTable()

	table.Put(Mapping{Source: "/opt/cache", Target: "/cache", ReadOnly: true})
	table.Put(Mapping{Source: "/home/user/cache", Target: "/cache"})

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}

	m, ok := table.Get("/cache")
	if !ok {
		t.Fatal("Get(/cache) not found")
	}
	if m.Source != "/home/user/cache" || m.ReadOnly {
		t.Errorf("Get(/cache) = %+v, want later entry to win", m)
	}
}

func TestTableUserOverridesDefault(t *testing.T) {
	table := NewTable()

	// Stage 1: profile defaults
	table.PutAll([]Mapping{
		{Source: "/srv/licenses", Target: "/licenses", ReadOnly: true},
		{Source: "/srv/toolchains", Target: "/toolchains", ReadOnly: true},
	})

	// Stage 2: user mapping for the same container path
	table.Put(Mapping{Source: "/home/user/licenses", Target: "/licenses"})

	m, _ := table.Get("/licenses")
	if m.Source != "/home/user/licenses" {
		t.Errorf("user mapping should replace default, got source %q", m.Source)
	}

	m, _ = table.Get("/toolchains")
	if m.Source != "/srv/toolchains" {
		t.Errorf("untouched default should survive, got source %q", m.Source)
	}
}

func TestTableIdempotentReapplication(t *testing.T) {
	user := []Mapping{
		{Source: "/data", Target: "/mnt/data"},
		{Source: "/scratch", Target: "/mnt/scratch", ReadOnly: true},
	}

	once := NewTable()
	once.PutAll(user)

	twice := NewTable()
	twice.PutAll(user)
	twice.PutAll(user)

	if !reflect.DeepEqual(once.List(), twice.List()) {
		t.Errorf("re-applying the same mappings changed the table:\nonce:  %+v\ntwice: %+v",
			once.List(), twice.List())
	}
}

func TestTableListOrderStable(t *testing.T) {
	table := NewTable()
	table.Put(Mapping{Source: "/b", Target: "/mnt/b"})
	table.Put(Mapping{Source: "/a", Target: "/mnt/a"})
	table.Put(Mapping{Source: "/c", Target: "/mnt/b"}) // overwrite keeps position

	got := table.List()
	wantTargets := []string{"/mnt/b", "/mnt/a"}
	for i, w := range wantTargets {
		if got[i].Target != w {
			t.Errorf("List()[%d].Target = %q, want %q", i, got[i].Target, w)
		}
	}
	if got[0].Source != "/c" {
		t.Errorf("overwritten entry source = %q, want /c", got[0].Source)
	}
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []Mapping
		wantErr bool
	}{
		{
			name: "single read-write",
			spec: "/data:/mnt/data",
			want: []Mapping{{Source: "/data", Target: "/mnt/data"}},
		},
		{
			name: "read-only suffix",
			spec: "/data:/mnt/data:ro",
			want: []Mapping{{Source: "/data", Target: "/mnt/data", ReadOnly: true}},
		},
		{
			name: "multiple entries",
			spec: "/a:/mnt/a;/b:/mnt/b:ro",
			want: []Mapping{
				{Source: "/a", Target: "/mnt/a"},
				{Source: "/b", Target: "/mnt/b", ReadOnly: true},
			},
		},
		{
			name: "trailing semicolon ignored",
			spec: "/a:/mnt/a;",
			want: []Mapping{{Source: "/a", Target: "/mnt/a"}},
		},
		{
			name:    "missing colon",
			spec:    "/data",
			wantErr: true,
		},
		{
			name:    "empty container path",
			spec:    "/data:",
			wantErr: true,
		},
		{
			name:    "empty host path",
			spec:    ":/mnt/data",
			wantErr: true,
		},
		{
			name:    "unknown flag",
			spec:    "/data:/mnt/data:rw",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSpec(%q) expected error, got %+v", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSpec(%q) error: %v", tt.spec, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSpec(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}
