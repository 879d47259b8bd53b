package jsonrpc

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/mezonai/mmn-runtime/common"
	"github.com/mezonai/mmn-runtime/errors"
	"github.com/mezonai/mmn-runtime/exception"
	"github.com/mezonai/mmn-runtime/interfaces"
	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/monitoring"
	"github.com/mezonai/mmn-runtime/types"
)

// JSON-RPC error codes returned to clients
const (
	CodeInvalidParams jrpc2.Code = -32602
	CodeInternal      jrpc2.Code = -32603
	CodeDispatch      jrpc2.Code = -32000
)

func toJRPC2Error(err error) error {
	if err == nil {
		return nil
	}
	var de *errors.DispatchError
	if !stderrors.As(err, &de) {
		return jrpc2.Errorf(CodeInternal, "%s", errors.ErrMsgInternal)
	}
	code := CodeDispatch
	switch de.Code {
	case errors.ErrCodeInvalidAddress, errors.ErrCodeInvalidArgs, errors.ErrCodeInvalidRequest:
		code = CodeInvalidParams
	case errors.ErrCodeInternal, errors.ErrCodeStateCommit:
		code = CodeInternal
	}
	return jrpc2.Errorf(code, "%s", de.Message).WithData(de)
}

// --- Params/Results ---

type getBlockNumberResponse struct {
	BlockNumber uint64 `json:"block_number"`
}

type getAccountRequest struct {
	Address string `json:"address"`
}

type getAccountResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type getBalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type getNonceResponse struct {
	Address string `json:"address"`
	Nonce   uint64 `json:"nonce"`
}

type extrinsicParams struct {
	Caller string          `json:"caller"`
	Call   string          `json:"call"`
	Args   json.RawMessage `json:"args"`
}

type executeBlockRequest struct {
	BlockNumber uint64            `json:"block_number"`
	Extrinsics  []extrinsicParams `json:"extrinsics"`
}

type receiptInfo struct {
	Index   int    `json:"index"`
	Caller  string `json:"caller"`
	Call    string `json:"call"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type executeBlockResponse struct {
	BlockNumber uint64        `json:"block_number"`
	Receipts    []receiptInfo `json:"receipts"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

type Server struct {
	addr        string
	metricsPath string
	acctSvc     interfaces.AccountService
	chainSvc    interfaces.ChainService
	corsConfig  CORSConfig
	httpServer  *http.Server
	bridge      jhttp.Bridge
}

func NewServer(addr, metricsPath string, acctSvc interfaces.AccountService, chainSvc interfaces.ChainService) *Server {
	return &Server{
		addr:        addr,
		metricsPath: metricsPath,
		acctSvc:     acctSvc,
		chainSvc:    chainSvc,
		corsConfig: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         86400,
		},
	}
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

// Handler returns the HTTP handler serving JSON-RPC on "/" and metrics on the
// configured path. The handler is built once per server.
func (s *Server) Handler() http.Handler {
	s.bridge = jhttp.NewBridge(s.buildMethodMap(), &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	mux := http.NewServeMux()
	if s.metricsPath != "" {
		monitoring.RegisterMetrics(mux, s.metricsPath)
	}
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		logx.Debug("RPC", "Request from ", extractClientIPFromRequest(r))
		s.bridge.ServeHTTP(w, r)
	}))
	return mux
}

// Start binds the listen address and serves in the background. Bind errors
// are returned to the caller.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	exception.SafeGoWithPanic("jsonrpc-server", func() {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logx.Error("RPC", "JSON-RPC server stopped: ", err)
		}
	})
	logx.Info("RPC", "JSON-RPC server listening on ", ln.Addr().String())
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	err := s.httpServer.Shutdown(ctx)
	if cerr := s.bridge.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodSystemGetBlockNumber: handler.New(func(ctx context.Context) (*getBlockNumberResponse, error) {
			return &getBlockNumberResponse{BlockNumber: s.acctSvc.GetBlockNumber(ctx)}, nil
		}),
		MethodAccountGetAccount: handler.New(func(ctx context.Context, p getAccountRequest) (*getAccountResponse, error) {
			info, err := s.acctSvc.GetAccount(ctx, p.Address)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &getAccountResponse{Address: info.Address, Balance: info.Balance, Nonce: info.Nonce}, nil
		}),
		MethodAccountGetBalance: handler.New(func(ctx context.Context, p getAccountRequest) (*getBalanceResponse, error) {
			info, err := s.acctSvc.GetAccount(ctx, p.Address)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &getBalanceResponse{Address: info.Address, Balance: info.Balance}, nil
		}),
		MethodAccountGetNonce: handler.New(func(ctx context.Context, p getAccountRequest) (*getNonceResponse, error) {
			info, err := s.acctSvc.GetAccount(ctx, p.Address)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &getNonceResponse{Address: info.Address, Nonce: info.Nonce}, nil
		}),
		MethodChainExecuteBlock: handler.New(func(ctx context.Context, p executeBlockRequest) (*executeBlockResponse, error) {
			res, err := s.rpcExecuteBlock(ctx, p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
	}
}

func (s *Server) rpcExecuteBlock(ctx context.Context, p executeBlockRequest) (*executeBlockResponse, error) {
	block := types.Block[string, uint64]{
		Header:     types.Header[uint64]{BlockNumber: p.BlockNumber},
		Extrinsics: make([]types.Extrinsic[string], 0, len(p.Extrinsics)),
	}
	for _, e := range p.Extrinsics {
		if _, err := common.ParseAddress(e.Caller); err != nil {
			return nil, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress)
		}
		if e.Call == "" {
			return nil, errors.NewError(errors.ErrCodeInvalidRequest, errors.ErrMsgInvalidRequest)
		}
		block.Extrinsics = append(block.Extrinsics, types.Extrinsic[string]{Caller: e.Caller, Call: e.Call, Args: e.Args})
	}

	res, err := s.chainSvc.ExecuteBlock(ctx, block)
	if err != nil {
		return nil, err
	}
	out := &executeBlockResponse{BlockNumber: res.BlockNumber, Receipts: make([]receiptInfo, 0, len(res.Receipts))}
	for _, r := range res.Receipts {
		out.Receipts = append(out.Receipts, receiptInfo{
			Index:   r.Index,
			Caller:  r.Caller,
			Call:    r.Call,
			Success: r.Success,
			Error:   r.Error,
			Code:    string(errors.CodeOf(r.Err)),
		})
	}
	return out, nil
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" || !s.originAllowed(origin) {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.corsConfig.AllowedMethods, ", "))
	}
	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.corsConfig.AllowedHeaders, ", "))
	}
	if s.corsConfig.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", s.corsConfig.MaxAge))
	}
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.corsConfig.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
