package hostapi

import (
	"context"
	"io"
	"net/http"
)

// MonthlyStatements lists the statement files for a property
func (s *Service) MonthlyStatements(ctx context.Context, propertyID string) ([]Statement, error) {
	var resp statementsResponse
	if err := s.post(ctx, "/host/statements", map[string]interface{}{"propertyId": propertyID}, &resp); err != nil {
		return nil, err
	}
	if resp.Statements == nil {
		return []Statement{}, nil
	}
	return resp.Statements, nil
}

// DownloadStatement returns a download URL for one statement file
func (s *Service) DownloadStatement(ctx context.Context, propertyID, filename string) (string, error) {
	var resp downloadResponse
	params := map[string]interface{}{
		"propertyId": propertyID,
		"filename":   filename,
	}
	if err := s.post(ctx, "/host/statements/download", params, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// FetchStatement streams a statement download URL into w. Download links are
// pre-signed, so no token is sent, but the request still uses the configured client.
func (s *Service) FetchStatement(ctx context.Context, url string, w io.Writer) (int64, error) {
	return s.client.Download(ctx, url, w)
}

// ReferProperty submits a referral and returns the backend's HTTP status
func (s *Service) ReferProperty(ctx context.Context, ref Referral) (int, error) {
	params := map[string]interface{}{
		"ownerName":    ref.OwnerName,
		"ownerEmail":   ref.OwnerEmail,
		"ownerPhone":   ref.OwnerPhone,
		"propertyCity": ref.PropertyCity,
		"address":      ref.Address,
		"notes":        ref.Notes,
	}
	return s.call(ctx, http.MethodPut, "/host/referrals", params, nil)
}
