package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgerror"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgrouter"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) IngestBatch(ctx context.Context, r *http.Request) (any, error) {
	reader, cleanup, err := extractCSVReader(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pr, pw := io.Pipe()
	result, err := h.uc.Ingest(ctx, pr)
	if err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, err
	}

	if err := streamToPipe(reader, pw); err != nil {
		return nil, pkgerror.NewServer(err)
	}

	return IngestResponse{BatchID: result.BatchID}, nil
}

func (h *HTTPEndpoint) Batch(ctx context.Context, r *http.Request) (any, error) {
	batchID := strings.TrimSpace(pkgrouter.GetParam(ctx, "id"))
	if !pkguid.IsUUID(batchID) {
		return nil, pkgerror.NewInvalidInput(errors.New("invalid batch id"))
	}

	result, err := h.uc.Batch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	return BatchResponse{
		BatchID:    meta.ID,
		Status:     meta.Status,
		Error:      meta.Err,
		StartedAt:  meta.StartedAt,
		EndedAt:    meta.EndedAt,
		TotalLines: meta.TotalLines,
		ParsedOK:   meta.ParsedOK,
		ParseErr:   meta.ParseErr,
		Outcomes:   meta.Outcomes,
	}, nil
}

func (h *HTTPEndpoint) Accounts(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(result.Accounts))
	for _, view := range result.Accounts {
		accounts = append(accounts, toHTTPAccount(view))
	}

	return AccountsResponse{Accounts: accounts}, nil
}

func (h *HTTPEndpoint) Account(ctx context.Context, r *http.Request) (any, error) {
	client, err := parseClientID(pkgrouter.GetParam(ctx, "client"))
	if err != nil {
		return nil, err
	}

	view, err := h.uc.Account(ctx, client)
	if err != nil {
		return nil, err
	}

	return toHTTPAccount(view), nil
}

func parseClientID(raw string) (entity.ClientID, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 16)
	if err != nil {
		return 0, pkgerror.NewInvalidInput(errors.New("invalid client id"))
	}
	return entity.ClientID(value), nil
}

func toHTTPAccount(view entity.AccountView) Account {
	return Account{
		Client:    view.Client,
		Available: view.Available,
		Held:      view.Held,
		Total:     view.Total,
		Locked:    view.Locked,
	}
}

func extractCSVReader(r *http.Request) (io.ReadCloser, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartFile(r)
		}
	}

	if r.Body == nil || r.Body == http.NoBody {
		return nil, func() {}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	return r.Body, func() {}, nil
}

func extractMultipartFile(r *http.Request) (io.ReadCloser, func(), error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, func() {}, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, func() {}, pkgerror.NewInvalidInput(errors.New("file part is required"))
			}
			return nil, func() {}, pkgerror.NewInvalidFormat()
		}

		if part.FormName() == "file" {
			return part, func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}

func streamToPipe(src io.Reader, dst *io.PipeWriter) error {
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.CloseWithError(err)
		return err
	}

	return nil
}
