package oracle

import (
	"net/url"
	"strings"

	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
)

// Protocol resolves a URI to a body or a typed failure code (spec §1 "the
// core defines only the Protocol.process(URI) contract", §4.A).
type Protocol interface {
	Process(uri string) (transaction.OracleResponseCode, []byte)
}

// ProtocolFunc adapts a plain function to the Protocol interface.
type ProtocolFunc func(uri string) (transaction.OracleResponseCode, []byte)

// Process calls f.
func (f ProtocolFunc) Process(uri string) (transaction.OracleResponseCode, []byte) {
	return f(uri)
}

// protocols is the scheme (lowercase) → Protocol registry the request
// pipeline looks fetchers up in.
type protocols struct {
	m map[string]Protocol
}

func newProtocols() *protocols {
	return &protocols{m: make(map[string]Protocol)}
}

func (p *protocols) register(scheme string, proto Protocol) {
	p.m[strings.ToLower(scheme)] = proto
}

// process resolves uri through the registry, catching a panicking Protocol
// implementation and reporting it as Error rather than letting it escape
// (spec §4.A "unhandled exception ... caught and reported as Error").
func (p *protocols) process(rawURL string) (code transaction.OracleResponseCode, body []byte) {
	defer func() {
		if r := recover(); r != nil {
			code, body = transaction.Error, nil
		}
	}()

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return transaction.Error, nil
	}

	proto, ok := p.m[strings.ToLower(u.Scheme)]
	if !ok {
		return transaction.ProtocolNotSupported, nil
	}
	return proto.Process(rawURL)
}
