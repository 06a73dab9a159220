package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/api"
)

// BalanceServiceHandler is implemented by the balance service.
type BalanceServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return route(BalanceServiceName, map[string]http.Handler{
		BalanceServiceGetBalancesProcedure:       connect.NewUnaryHandler(BalanceServiceGetBalancesProcedure, svc.GetBalances, o),
		BalanceServiceConfirmSettlementProcedure: connect.NewUnaryHandler(BalanceServiceConfirmSettlementProcedure, svc.ConfirmSettlement, o),
	})
}

// BalanceServiceClient is a client for the BalanceService.
type BalanceServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error)
}

// NewBalanceServiceClient constructs a client for the BalanceService. baseURL is
// the server root, for example https://api.example.com.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = trimBase(baseURL)
	o := clientOptions(opts)
	return &balanceServiceClient{
		getBalances:       connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+BalanceServiceGetBalancesProcedure, o),
		confirmSettlement: connect.NewClient[api.ConfirmSettlementRequest, api.ConfirmSettlementResponse](httpClient, baseURL+BalanceServiceConfirmSettlementProcedure, o),
	}
}

type balanceServiceClient struct {
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	confirmSettlement *connect.Client[api.ConfirmSettlementRequest, api.ConfirmSettlementResponse]
}

func (c *balanceServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) ConfirmSettlement(ctx context.Context, req *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	return c.confirmSettlement.CallUnary(ctx, req)
}
