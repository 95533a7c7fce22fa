package decode

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesTLiu/mbox-to-contacts/model"
)

func TestHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain passthrough",
			raw:  `"Jane Doe" <jane@example.com>`,
			want: `"Jane Doe" <jane@example.com>`,
		},
		{
			name: "base64 utf-8 word",
			raw:  "=?UTF-8?B?SsO8cmdlbg==?= <juergen@mail.example.de>",
			want: "Jürgen <juergen@mail.example.de>",
		},
		{
			name: "quoted-printable latin-1 word",
			raw:  "=?ISO-8859-1?Q?Andr=E9?= Pirard <PIRARD@vm1.ulg.ac.be>",
			want: "André Pirard <PIRARD@vm1.ulg.ac.be>",
		},
		{
			name: "mixed charsets in one value",
			raw:  "=?ISO-8859-1?Q?=E9?= =?UTF-8?B?w7w=?= <mix@example.com>",
			want: "éü <mix@example.com>",
		},
		{
			name: "folded continuation lines",
			raw:  "john@work.org,\r\n jane@example.com",
			want: "john@work.org, jane@example.com",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  bob@example.com  ",
			want: "bob@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Header(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderUnknownCharset(t *testing.T) {
	_, err := Header("=?X-NO-SUCH-CHARSET?Q?abc?= <x@example.com>")
	require.Error(t, err)
}

func TestFieldsSkipsUndecodableField(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	raw := []model.Field{
		{Kind: model.FieldFrom, Record: 0, Value: "good@example.com"},
		{Kind: model.FieldTo, Record: 1, Value: "=?X-NO-SUCH-CHARSET?Q?abc?= <bad@example.com>"},
		{Kind: model.FieldFrom, Record: 2, Value: "=?UTF-8?B?SsO8cmdlbg==?= <ok@example.com>"},
	}

	decoded := Fields(raw, logger)

	require.Equal(t, []string{"good@example.com", "Jürgen <ok@example.com>"}, decoded)

	logged := logBuf.String()
	assert.Contains(t, logged, "decode failed")
	assert.Contains(t, logged, "record=1")
	assert.Contains(t, logged, "X-NO-SUCH-CHARSET")
}

func TestFieldsKeepsArchiveOrder(t *testing.T) {
	raw := []model.Field{
		{Kind: model.FieldFrom, Record: 0, Value: "c@example.com"},
		{Kind: model.FieldTo, Record: 0, Value: "a@example.com"},
		{Kind: model.FieldFrom, Record: 1, Value: "b@example.com"},
	}

	decoded := Fields(raw, nil)
	require.Equal(t, []string{"c@example.com", "a@example.com", "b@example.com"}, decoded)
}

func TestUnfold(t *testing.T) {
	assert.Equal(t, "a b", unfold("a\r\n\tb"))
	assert.Equal(t, "a b", unfold("a\n  b"))
	assert.Equal(t, "plain", unfold("plain"))
}
