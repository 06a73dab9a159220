package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/api"
)

// SheetServiceHandler is implemented by the sheet service.
type SheetServiceHandler interface {
	CreateSheet(context.Context, *connect.Request[api.CreateSheetRequest]) (*connect.Response[api.CreateSheetResponse], error)
	GetSheet(context.Context, *connect.Request[api.GetSheetRequest]) (*connect.Response[api.GetSheetResponse], error)
	ListSheets(context.Context, *connect.Request[api.ListSheetsRequest]) (*connect.Response[api.ListSheetsResponse], error)
	ArchiveSheet(context.Context, *connect.Request[api.ArchiveSheetRequest]) (*connect.Response[api.ArchiveSheetResponse], error)
	DeleteSheet(context.Context, *connect.Request[api.DeleteSheetRequest]) (*connect.Response[api.DeleteSheetResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
}

// NewSheetServiceHandler builds an HTTP handler from the service implementation.
func NewSheetServiceHandler(svc SheetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return route(SheetServiceName, map[string]http.Handler{
		SheetServiceCreateSheetProcedure:    connect.NewUnaryHandler(SheetServiceCreateSheetProcedure, svc.CreateSheet, o),
		SheetServiceGetSheetProcedure:       connect.NewUnaryHandler(SheetServiceGetSheetProcedure, svc.GetSheet, o),
		SheetServiceListSheetsProcedure:     connect.NewUnaryHandler(SheetServiceListSheetsProcedure, svc.ListSheets, o),
		SheetServiceArchiveSheetProcedure:   connect.NewUnaryHandler(SheetServiceArchiveSheetProcedure, svc.ArchiveSheet, o),
		SheetServiceDeleteSheetProcedure:    connect.NewUnaryHandler(SheetServiceDeleteSheetProcedure, svc.DeleteSheet, o),
		SheetServiceAddParticipantProcedure: connect.NewUnaryHandler(SheetServiceAddParticipantProcedure, svc.AddParticipant, o),
	})
}

// SheetServiceClient is a client for the splitsheets.v1.SheetService service.
type SheetServiceClient interface {
	CreateSheet(context.Context, *connect.Request[api.CreateSheetRequest]) (*connect.Response[api.CreateSheetResponse], error)
	GetSheet(context.Context, *connect.Request[api.GetSheetRequest]) (*connect.Response[api.GetSheetResponse], error)
	ListSheets(context.Context, *connect.Request[api.ListSheetsRequest]) (*connect.Response[api.ListSheetsResponse], error)
	ArchiveSheet(context.Context, *connect.Request[api.ArchiveSheetRequest]) (*connect.Response[api.ArchiveSheetResponse], error)
	DeleteSheet(context.Context, *connect.Request[api.DeleteSheetRequest]) (*connect.Response[api.DeleteSheetResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
}

// NewSheetServiceClient constructs a client for the SheetService. baseURL is
// the server root, for example https://api.example.com.
func NewSheetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SheetServiceClient {
	baseURL = trimBase(baseURL)
	o := clientOptions(opts)
	return &sheetServiceClient{
		createSheet:    connect.NewClient[api.CreateSheetRequest, api.CreateSheetResponse](httpClient, baseURL+SheetServiceCreateSheetProcedure, o),
		getSheet:       connect.NewClient[api.GetSheetRequest, api.GetSheetResponse](httpClient, baseURL+SheetServiceGetSheetProcedure, o),
		listSheets:     connect.NewClient[api.ListSheetsRequest, api.ListSheetsResponse](httpClient, baseURL+SheetServiceListSheetsProcedure, o),
		archiveSheet:   connect.NewClient[api.ArchiveSheetRequest, api.ArchiveSheetResponse](httpClient, baseURL+SheetServiceArchiveSheetProcedure, o),
		deleteSheet:    connect.NewClient[api.DeleteSheetRequest, api.DeleteSheetResponse](httpClient, baseURL+SheetServiceDeleteSheetProcedure, o),
		addParticipant: connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+SheetServiceAddParticipantProcedure, o),
	}
}

type sheetServiceClient struct {
	createSheet    *connect.Client[api.CreateSheetRequest, api.CreateSheetResponse]
	getSheet       *connect.Client[api.GetSheetRequest, api.GetSheetResponse]
	listSheets     *connect.Client[api.ListSheetsRequest, api.ListSheetsResponse]
	archiveSheet   *connect.Client[api.ArchiveSheetRequest, api.ArchiveSheetResponse]
	deleteSheet    *connect.Client[api.DeleteSheetRequest, api.DeleteSheetResponse]
	addParticipant *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
}

func (c *sheetServiceClient) CreateSheet(ctx context.Context, req *connect.Request[api.CreateSheetRequest]) (*connect.Response[api.CreateSheetResponse], error) {
	return c.createSheet.CallUnary(ctx, req)
}

func (c *sheetServiceClient) GetSheet(ctx context.Context, req *connect.Request[api.GetSheetRequest]) (*connect.Response[api.GetSheetResponse], error) {
	return c.getSheet.CallUnary(ctx, req)
}

func (c *sheetServiceClient) ListSheets(ctx context.Context, req *connect.Request[api.ListSheetsRequest]) (*connect.Response[api.ListSheetsResponse], error) {
	return c.listSheets.CallUnary(ctx, req)
}

func (c *sheetServiceClient) ArchiveSheet(ctx context.Context, req *connect.Request[api.ArchiveSheetRequest]) (*connect.Response[api.ArchiveSheetResponse], error) {
	return c.archiveSheet.CallUnary(ctx, req)
}

func (c *sheetServiceClient) DeleteSheet(ctx context.Context, req *connect.Request[api.DeleteSheetRequest]) (*connect.Response[api.DeleteSheetResponse], error) {
	return c.deleteSheet.CallUnary(ctx, req)
}

func (c *sheetServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}
