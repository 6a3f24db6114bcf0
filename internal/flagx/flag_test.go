package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-d", "subs.db", "-x", "1"},
			allowedFlags: []string{"-d", "-b"},
			want:         []string{"-d", "subs.db"},
		},
		{
			name:         "inline value",
			args:         []string{"-b=/tmp/backups", "restore"},
			allowedFlags: []string{"-d", "-b"},
			want:         []string{"-b=/tmp/backups"},
		},
		{
			name:         "order preserved across allowed flags",
			args:         []string{"-l", "debug", "-d", "subs.db", "-other", "x"},
			allowedFlags: []string{"-d", "-l"},
			want:         []string{"-l", "debug", "-d", "subs.db"},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-d"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-d", "-l=debug"},
			allowedFlags: []string{"-d", "-l"},
			want:         []string{"-d", "-l=debug"},
		},
		{
			name:         "nothing allowed",
			args:         []string{"positional", "--y=2"},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"bin", "-c", "/etc/subcontrol.json"}, "/etc/subcontrol.json"},
		{"long", []string{"bin", "-config", "/a.json"}, "/a.json"},
		{"double dash inline", []string{"bin", "--config=/b.json"}, "/b.json"},
		{"last wins", []string{"bin", "-c", "/1.json", "-config", "/2.json"}, "/2.json"},
		{"absent", []string{"bin", "-d", "x.db"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			os.Args = tc.args
			assert.Equal(t, tc.want, JsonConfigFlags())
		})
	}
}
