package oracle

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// rpcRequest is the minimal JSON-RPC 2.0 envelope peers exchange partial
// signatures over (spec §4.F "submitoracleresponse").
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Error *rpcError `json:"error"`
}

const submitMethod = "submitoracleresponse"

// maxRPCBodyRead bounds how much of a peer's response body this node will
// read before discarding it; peers are untrusted, and the only thing this
// node does with the body is log it on error.
const maxRPCBodyRead = 1 << 16

// signGossipMessage builds the byte string a peer's msg_sig proves
// possession of the request's private key over: the sender's own
// compressed public key, the request id (little-endian), and the tx
// signature being gossiped (spec §4.F "msg_sig").
func signGossipMessage(pub *keys.PublicKey, id uint64, txSig []byte) []byte {
	buf := make([]byte, 0, len(pub.Bytes())+8+len(txSig))
	buf = append(buf, pub.Bytes()...)
	var idBuf [8]byte
	binary.LittleEndian.PutUint64(idBuf[:], id)
	buf = append(buf, idBuf[:]...)
	buf = append(buf, txSig...)
	return buf
}

// sendResponse gossips a single peer's partial signature over request id
// to every configured peer, fire-and-forget (spec §4.F): failures are
// logged at Warn and never block or retry synchronously. sig may be a
// signature over the primary or the backup response transaction — there is
// exactly one wire method, and the receiver disambiguates by which tx the
// signature actually verifies against (spec §4.E, §4.G).
func sendResponse(client *http.Client, peers []string, log *zap.Logger, priv *keys.PrivateKey, id uint64, sig []byte) {
	pub := priv.PublicKey()
	msg := signGossipMessage(pub, id, sig)
	msgSig := priv.Sign(msg)

	params := []interface{}{
		base64.StdEncoding.EncodeToString(pub.Bytes()),
		id,
		base64.StdEncoding.EncodeToString(sig),
		base64.StdEncoding.EncodeToString(msgSig),
	}
	for _, peer := range peers {
		go gossipOne(client, peer, submitMethod, params, log, id)
	}
}

func gossipOne(client *http.Client, peer, method string, params []interface{}, log *zap.Logger, id uint64) {
	req := rpcRequest{JSONRPC: "2.0", ID: uuid.NewString(), Method: method, Params: params}
	b, err := json.Marshal(req)
	if err != nil {
		log.Warn("can't marshal oracle gossip request", zap.Error(err))
		return
	}

	resp, err := client.Post(peer, "application/json", bytes.NewReader(b))
	if err != nil {
		log.Warn("failed to send oracle response to peer", zap.String("peer", peer), zap.Uint64("id", id), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxRPCBodyRead))
	var rr rpcResponse
	if err := json.Unmarshal(body, &rr); err == nil && rr.Error != nil {
		log.Warn("peer rejected oracle response", zap.String("peer", peer), zap.Uint64("id", id), zap.Int("code", rr.Error.Code), zap.String("message", rr.Error.Message))
	}
}

// Inbound RPC error codes for the submitoracleresponse method (spec §4.G).
const inboundErrorCode = -100

const (
	errInvalidSign    = "Invalid sign"
	errAlreadyFinish  = "Request has already finished"
	errRequestUnknown = "Request is not found"
	errInvalidTxSign  = "Invalid response transaction sign"
)

// inboundParams is the decoded form of submitoracleresponse's params array.
type inboundParams struct {
	PubKey []byte
	ID     uint64
	TxSig  []byte
	MsgSig []byte
}

func parseInboundParams(raw []json.RawMessage) (inboundParams, error) {
	var p inboundParams
	if len(raw) != 4 {
		return p, fmt.Errorf("expected 4 params, got %d", len(raw))
	}
	var pubB64, txSigB64, msgSigB64 string
	if err := json.Unmarshal(raw[0], &pubB64); err != nil {
		return p, err
	}
	if err := json.Unmarshal(raw[1], &p.ID); err != nil {
		return p, err
	}
	if err := json.Unmarshal(raw[2], &txSigB64); err != nil {
		return p, err
	}
	if err := json.Unmarshal(raw[3], &msgSigB64); err != nil {
		return p, err
	}
	var err error
	if p.PubKey, err = base64.StdEncoding.DecodeString(pubB64); err != nil {
		return p, err
	}
	if p.TxSig, err = base64.StdEncoding.DecodeString(txSigB64); err != nil {
		return p, err
	}
	if p.MsgSig, err = base64.StdEncoding.DecodeString(msgSigB64); err != nil {
		return p, err
	}
	return p, nil
}

// handleSubmit implements the inbound half of peer signature exchange, the
// single submitoracleresponse method (spec §4.G), in the order the spec
// requires:
//  1. verify the envelope signature (msg_sig over pubkey||id||tx_sig);
//  2. reject if the request already finished;
//  3. reject if the chain has no record of the request;
//  4. delegate the bare tx signature to the aggregator (spec §4.E), which
//     is the only place that knows whether it's a primary or backup sign.
func (s *Service) handleSubmit(raw []json.RawMessage) error {
	p, err := parseInboundParams(raw)
	if err != nil {
		return jsonRPCErr(errInvalidSign)
	}

	pub, err := keys.NewPublicKeyFromBytes(p.PubKey)
	if err != nil {
		return jsonRPCErr(errInvalidSign)
	}

	msg := signGossipMessage(pub, p.ID, p.TxSig)
	h := hash.Sha256(msg)
	if !pub.Verify(p.MsgSig, h[:]) {
		return jsonRPCErr(errInvalidSign)
	}

	if s.aggregator.isFinished(p.ID) {
		return jsonRPCErr(errAlreadyFinish)
	}

	snap := s.ledger.Snapshot()
	req, err := snap.GetRequest(p.ID)
	if err != nil {
		return jsonRPCErr(errRequestUnknown)
	}

	oracles, err := snap.DesignatedOracles(snap.Height() + 1)
	if err != nil || !oracles.Contains(pub) {
		return jsonRPCErr(errInvalidSign)
	}

	task := s.aggregator.getOrCreateTask(p.ID)
	task.mtx.Lock()
	if task.request == nil {
		task.request = req
	}
	task.mtx.Unlock()

	if err := s.aggregator.AddResponseTxSign(p.ID, pub, p.TxSig, oracles); err != nil {
		switch err {
		case ErrAlreadyFinished:
			return jsonRPCErr(errAlreadyFinish)
		case ErrInvalidSignature:
			return jsonRPCErr(errInvalidTxSign)
		default:
			return jsonRPCErr(errInvalidSign)
		}
	}
	return nil
}

type rpcErr string

func (e rpcErr) Error() string { return string(e) }

func jsonRPCErr(msg string) error { return rpcErr(msg) }
