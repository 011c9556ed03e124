package oracle

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/Tommo-L/neo-modules/pkg/config"
	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
	"golang.org/x/text/encoding/htmlindex"
)

// httpsProtocol is the reference Protocol implementation (spec §4.B),
// registered for both the "http" and "https" schemes.
type httpsProtocol struct {
	client              *http.Client
	allowedContentTypes []string
}

func newHTTPSProtocol(cfg config.OracleConfiguration) *httpsProtocol {
	return &httpsProtocol{
		client:              getDefaultClient(cfg),
		allowedContentTypes: cfg.AllowedContentTypes,
	}
}

// Process implements Protocol.
func (h *httpsProtocol) Process(uri string) (transaction.OracleResponseCode, []byte) {
	resp, err := h.client.Get(uri)
	if err != nil {
		if errors.Is(err, ErrRestrictedRedirect) {
			return transaction.Forbidden, nil
		}
		if isTimeoutErr(err) {
			return transaction.Timeout, nil
		}
		return transaction.Error, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return transaction.NotFound, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return transaction.Error, nil
	}

	ct := resp.Header.Get("Content-Type")
	if !checkMediaType(ct, h.allowedContentTypes) {
		return transaction.ProtocolNotSupported, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(transaction.MaxOracleResultSize)+1))
	if err != nil {
		if isTimeoutErr(err) {
			return transaction.Timeout, nil
		}
		return transaction.Error, nil
	}

	body, err = transcodeToUTF8(body, ct)
	if err != nil {
		return transaction.Error, nil
	}
	return transaction.Success, body
}

// transcodeToUTF8 re-encodes body to UTF-8 when ct names a non-UTF-8
// charset, the way a browser honors a page's declared encoding instead of
// assuming UTF-8; bodies with no charset parameter, an unrecognized one,
// or one already UTF-8 pass through unchanged (spec §4.C: the filter
// stage requires valid UTF-8 JSON).
func transcodeToUTF8(body []byte, ct string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return body, nil
	}
	charset := params["charset"]
	if charset == "" || charset == "utf-8" || charset == "UTF-8" {
		return body, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return body, nil
	}
	return enc.NewDecoder().Bytes(body)
}

// isTimeoutErr reports whether err (or something it wraps) represents a
// client-side deadline exceeded, the way net/http surfaces Client.Timeout.
func isTimeoutErr(err error) bool {
	type timeouter interface{ Timeout() bool }
	for err != nil {
		if t, ok := err.(timeouter); ok && t.Timeout() {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return false
}
