package manifest

import (
	"reflect"
	"testing"
)

func TestNames(t *testing.T) {
	m := Manifest{"b.txt": 1, "a/c.txt": 2, "a.txt": 3}
	want := []string{"a.txt", "a/c.txt", "b.txt"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := (Manifest{}).Names(); len(got) != 0 {
		t.Errorf("Names() on empty manifest = %v, want empty", got)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normalized", in: "folder/file2.txt", want: "folder/file2.txt"},
		{name: "backslashes", in: `folder\sub\file.txt`, want: "folder/sub/file.txt"},
		{name: "leading dot slash", in: "./file1.txt", want: "file1.txt"},
		{name: "leading slash", in: "/abs/file.txt", want: "abs/file.txt"},
		{name: "mixed leading", in: "././/x.txt", want: "x.txt"},
		{name: "hidden file kept", in: ".hidden", want: ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
