package privilege

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Mask
		wantErr bool
	}{
		{in: "read", want: 4609},
		{in: "write", want: 198},
		{in: "read,write", want: 4609 | 198},
		{in: "DAV:read write-acl", want: 4609 | 256},
		{in: "READ", want: 4609},
		{in: "all", want: 16777215},
		{in: "schedule-send", want: 57344},
		{in: "read,0x100000", want: 4609 | 1<<20},
		{in: "0x000200", want: 512},
		{in: "0x1000000", wantErr: true},
		{in: "0xzz", wantErr: true},
		{in: "read,bogus", wantErr: true},
		{in: " , ", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		mask Mask
		want []string
	}{
		{mask: 0, want: nil},
		{mask: All, want: []string{"all"}},
		{mask: Read, want: []string{"read"}},
		{mask: Read | Write, want: []string{"read", "write"}},
		{mask: ReadFreeBusy, want: []string{"read-free-busy"}},
		{mask: Read | WriteACL, want: []string{"read", "write-acl"}},
		{mask: WriteProperties | Bind, want: []string{"write-properties", "bind"}},
		{mask: ScheduleDeliver | ScheduleSendReply, want: []string{"schedule-deliver", "schedule-send-reply"}},
		{mask: 1, want: []string{"0x000001"}},
		{mask: 512, want: []string{"0x000200"}},
		{mask: 1 | 512, want: []string{"0x000201"}},
		{mask: Read | 1<<20, want: []string{"read", "0x100000"}},
		{mask: Write | 1, want: []string{"write", "0x000001"}},
	}
	for _, tt := range tests {
		t.Run(tt.mask.Bits(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.mask.Names()); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNamesRoundTrip(t *testing.T) {
	for _, name := range Known() {
		m, err := Parse(name)
		require.NoError(t, err, name)

		back, err := Parse(m.String())
		require.NoError(t, err, name)
		assert.Equal(t, m, back, name)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "none", Mask(0).String())
	assert.Equal(t, "read,write", (Read | Write).String())
	assert.Equal(t, "0x000001", Mask(1).String())
	assert.Equal(t, "0x000200", Mask(512).String())
	assert.Equal(t, "read,0x100000", (Read | 1<<20).String())
}

func TestStringRoundTrip_UnnamedBits(t *testing.T) {
	for _, m := range []Mask{1, 512, Read | 1<<20, Write | 1 | 1<<23} {
		back, err := Parse(m.String())
		require.NoError(t, err, m.Bits())
		assert.Equal(t, m, back, m.Bits())
	}
}

func TestBits(t *testing.T) {
	assert.Equal(t, "000000000001001000000001", Read.Bits())
	assert.Equal(t, "111111111111111111111111", All.Bits())
	assert.Len(t, Mask(1<<30).Bits(), 24)
}

func TestKnown(t *testing.T) {
	k := Known()
	assert.Len(t, k, 20)
	assert.Contains(t, k, "read-current-user-privilege-set")
	assert.IsNonDecreasing(t, k)
}

func TestFromBits(t *testing.T) {
	m, err := FromBits(Read.Bits())
	require.NoError(t, err)
	assert.Equal(t, Read, m)

	m, err = FromBits((Write | ReadACL).Bits())
	require.NoError(t, err)
	assert.Equal(t, Write|ReadACL, m)

	_, err = FromBits("101")
	assert.Error(t, err)
	_, err = FromBits("00000000000000000000000x")
	assert.Error(t, err)
}
