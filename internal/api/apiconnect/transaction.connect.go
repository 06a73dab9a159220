package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/api"
)

// TransactionServiceHandler is implemented by the transaction service.
type TransactionServiceHandler interface {
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewTransactionServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return route(TransactionServiceName, map[string]http.Handler{
		TransactionServicePreviewSplitProcedure:      connect.NewUnaryHandler(TransactionServicePreviewSplitProcedure, svc.PreviewSplit, o),
		TransactionServiceCreateTransactionProcedure: connect.NewUnaryHandler(TransactionServiceCreateTransactionProcedure, svc.CreateTransaction, o),
		TransactionServiceListTransactionsProcedure:  connect.NewUnaryHandler(TransactionServiceListTransactionsProcedure, svc.ListTransactions, o),
		TransactionServiceDeleteTransactionProcedure: connect.NewUnaryHandler(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, o),
	})
}

// TransactionServiceClient is a client for the TransactionService.
type TransactionServiceClient interface {
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewTransactionServiceClient constructs a client for the TransactionService. baseURL is
// the server root, for example https://api.example.com.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransactionServiceClient {
	baseURL = trimBase(baseURL)
	o := clientOptions(opts)
	return &transactionServiceClient{
		previewSplit:      connect.NewClient[api.PreviewSplitRequest, api.PreviewSplitResponse](httpClient, baseURL+TransactionServicePreviewSplitProcedure, o),
		createTransaction: connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+TransactionServiceCreateTransactionProcedure, o),
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+TransactionServiceListTransactionsProcedure, o),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+TransactionServiceDeleteTransactionProcedure, o),
	}
}

type transactionServiceClient struct {
	previewSplit      *connect.Client[api.PreviewSplitRequest, api.PreviewSplitResponse]
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
}

func (c *transactionServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *transactionServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}
