// Package apiconnect wires the splitsheets services to connect handlers and
// clients. All handlers and clients speak api.JSONCodec.
package apiconnect

import (
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/api"
)

const (
	AuthServiceName        = "splitsheets.v1.AuthService"
	SheetServiceName       = "splitsheets.v1.SheetService"
	TransactionServiceName = "splitsheets.v1.TransactionService"
	BalanceServiceName     = "splitsheets.v1.BalanceService"
)

// Fully-qualified procedure names, as they appear in URL paths.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	SheetServiceCreateSheetProcedure    = "/" + SheetServiceName + "/CreateSheet"
	SheetServiceGetSheetProcedure       = "/" + SheetServiceName + "/GetSheet"
	SheetServiceListSheetsProcedure     = "/" + SheetServiceName + "/ListSheets"
	SheetServiceArchiveSheetProcedure   = "/" + SheetServiceName + "/ArchiveSheet"
	SheetServiceDeleteSheetProcedure    = "/" + SheetServiceName + "/DeleteSheet"
	SheetServiceAddParticipantProcedure = "/" + SheetServiceName + "/AddParticipant"

	TransactionServicePreviewSplitProcedure      = "/" + TransactionServiceName + "/PreviewSplit"
	TransactionServiceCreateTransactionProcedure = "/" + TransactionServiceName + "/CreateTransaction"
	TransactionServiceListTransactionsProcedure  = "/" + TransactionServiceName + "/ListTransactions"
	TransactionServiceDeleteTransactionProcedure = "/" + TransactionServiceName + "/DeleteTransaction"

	BalanceServiceGetBalancesProcedure       = "/" + BalanceServiceName + "/GetBalances"
	BalanceServiceConfirmSettlementProcedure = "/" + BalanceServiceName + "/ConfirmSettlement"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = map[string]bool{
	AuthServiceRegisterProcedure: true,
	AuthServiceLoginProcedure:    true,
}

func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	return connect.WithHandlerOptions(append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)...)
}

func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)...)
}

// route serves the procedures of one service.
func route(service string, handlers map[string]http.Handler) (string, http.Handler) {
	return "/" + service + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
