// Package sheets wraps the Google Sheets API with range reads into RowSets
// and RowSet writes.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/coastwise/gcpkit/pkg/tabular"
)

// Client wraps the Sheets service.
type Client struct {
	svc *sheets.Service
}

// New creates a Sheets client using Application Default Credentials. The
// Sheets API must be enabled in the credential's project.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Read loads a range into a RowSet. When header is true the first row becomes
// the column names; otherwise columns are left empty.
func (c *Client) Read(ctx context.Context, spreadsheetID, readRange string, header bool) (*tabular.RowSet, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %s: %w", readRange, err)
	}

	rs := &tabular.RowSet{}
	rows := resp.Values
	if header && len(rows) > 0 {
		for _, v := range rows[0] {
			rs.Columns = append(rs.Columns, fmt.Sprint(v))
		}
		rows = rows[1:]
	}
	for _, row := range rows {
		rs.Rows = append(rs.Rows, row)
	}
	return rs, nil
}

// Write replaces the contents of a range with the RowSet, header first.
func (c *Client) Write(ctx context.Context, spreadsheetID, writeRange string, rs *tabular.RowSet) error {
	values := make([][]any, 0, rs.NumRows()+1)
	if len(rs.Columns) > 0 {
		header := make([]any, len(rs.Columns))
		for i, c := range rs.Columns {
			header[i] = c
		}
		values = append(values, header)
	}
	values = append(values, rs.Rows...)

	_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing range %s: %w", writeRange, err)
	}
	return nil
}

// Append adds rows after the last row of data in a range.
func (c *Client) Append(ctx context.Context, spreadsheetID, writeRange string, rows [][]any) error {
	_, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, writeRange, &sheets.ValueRange{
		Values: rows,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to range %s: %w", writeRange, err)
	}
	return nil
}
