// Package cloudlog wraps Cloud Logging with entry writes and filtered reads
// into RowSets.
package cloudlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/logging"
	"cloud.google.com/go/logging/logadmin"
	"google.golang.org/api/iterator"

	"github.com/coastwise/gcpkit/pkg/tabular"
)

// Client wraps the Cloud Logging write and admin clients for one project.
type Client struct {
	w         *logging.Client
	admin     *logadmin.Client
	projectID string
}

// New creates write and read clients using Application Default Credentials.
func New(ctx context.Context, projectID string) (*Client, error) {
	w, err := logging.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating logging client: %w", err)
	}
	admin, err := logadmin.NewClient(ctx, projectID)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("creating logadmin client: %w", err)
	}
	return &Client{w: w, admin: admin, projectID: projectID}, nil
}

// Close flushes pending entries and releases both clients.
func (c *Client) Close() error {
	wErr := c.w.Close()
	aErr := c.admin.Close()
	if wErr != nil {
		return wErr
	}
	return aErr
}

// Write sends one entry to the named log. Severity is a Cloud Logging
// severity string such as "INFO" or "ERROR".
func (c *Client) Write(logName, severity string, payload any) {
	c.w.Logger(logName).Log(logging.Entry{
		Payload:  payload,
		Severity: logging.ParseSeverity(severity),
	})
}

// Query reads entries from the project into a RowSet. logName and severities
// narrow the filter when non-empty; limit caps the number of rows, 0 meaning
// no cap.
func (c *Client) Query(ctx context.Context, logName string, severities []string, newestFirst bool, limit int) (*tabular.RowSet, error) {
	var filters []string
	if len(severities) > 0 {
		filters = append(filters, fmt.Sprintf("severity=(%s)", strings.Join(severities, " OR ")))
	}
	if logName != "" {
		filters = append(filters, fmt.Sprintf("logName=projects/%s/logs/%s", c.projectID, logName))
	}

	opts := []logadmin.EntriesOption{}
	if len(filters) > 0 {
		opts = append(opts, logadmin.Filter(strings.Join(filters, "\n")))
	}
	if newestFirst {
		opts = append(opts, logadmin.NewestFirst())
	}

	rs := tabular.New("log_name", "timestamp", "severity", "labels", "payload")
	it := c.admin.Entries(ctx, opts...)
	for {
		e, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing log entries: %w", err)
		}
		labels, _ := json.Marshal(e.Labels)
		rs.Append(e.LogName, e.Timestamp.UTC(), e.Severity.String(), string(labels), fmt.Sprint(e.Payload))
		if limit > 0 && rs.NumRows() >= limit {
			break
		}
	}
	return rs, nil
}
