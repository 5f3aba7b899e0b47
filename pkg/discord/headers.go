package discord

import (
	"net/http"

	"github.com/questx-lab/interaction/pkg/errorx"
)

const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"
)

type Headers struct {
	Signature string
	Timestamp string
}

// ParseHeaders extracts the signature headers sent by Discord. A header that
// is absent or repeated is rejected as a bad request. An empty value is kept
// and fails verification later.
func ParseHeaders(h http.Header) (Headers, error) {
	signature, err := singleHeader(h, HeaderSignature)
	if err != nil {
		return Headers{}, err
	}

	timestamp, err := singleHeader(h, HeaderTimestamp)
	if err != nil {
		return Headers{}, err
	}

	return Headers{Signature: signature, Timestamp: timestamp}, nil
}

func singleHeader(h http.Header, name string) (string, error) {
	values := h.Values(name)
	switch {
	case len(values) == 0:
		return "", errorx.New(errorx.BadRequest, "Missing header %s", name)
	case len(values) > 1:
		return "", errorx.New(errorx.BadRequest, "Header %s must be a single value", name)
	}

	return values[0], nil
}
