package oracle

import (
	"encoding/json"
	"net/http"
)

type inboundRPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type outboundRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   *rpcError       `json:"error,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
}

// ServeHTTP implements the inbound half of peer signature exchange as a
// plain JSON-RPC endpoint (spec §4.G "Inbound signature endpoint"): the one
// wire method, submitoracleresponse, carries a bare tx signature with no
// primary/backup discriminator (spec §6) — handleSubmit and the aggregator
// it delegates to are what figure out which response transaction it
// belongs to.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req inboundRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, nil, errInvalidSign)
		return
	}

	if req.Method != submitMethod {
		writeRPCError(w, req.ID, errInvalidSign)
		return
	}
	if err := s.handleSubmit(req.Params); err != nil {
		writeRPCError(w, req.ID, err.Error())
		return
	}
	writeRPCResult(w, req.ID, true)
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, msg string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(outboundRPCResponse{
		JSONRPC: "2.0", ID: id,
		Error: &rpcError{Code: inboundErrorCode, Message: msg},
	})
}

func writeRPCResult(w http.ResponseWriter, id json.RawMessage, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(outboundRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}
