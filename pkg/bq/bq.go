// Package bq wraps the BigQuery client with dataset inventory, query
// execution into RowSets, and load-job submission.
package bq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/coastwise/gcpkit/pkg/tabular"
)

// Client wraps a BigQuery client bound to one project.
type Client struct {
	bq  *bigquery.Client
	log *slog.Logger
}

// DatasetInfo describes one dataset in the project.
type DatasetInfo struct {
	ID       string
	Location string
}

// TableInfo describes one table within a dataset.
type TableInfo struct {
	DatasetID string
	TableID   string
	NumRows   uint64
	NumBytes  int64
	Created   time.Time
}

// JobSummary carries the statistics callers usually want after a query.
type JobSummary struct {
	JobID          string
	Elapsed        time.Duration
	CacheHit       bool
	BytesProcessed int64
	BytesBilled    int64
}

// New creates a BigQuery client for the given project using Application
// Default Credentials.
func New(ctx context.Context, projectID string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", err)
	}
	return &Client{bq: client, log: log}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.bq.Close()
}

// Datasets lists all datasets in the project.
func (c *Client) Datasets(ctx context.Context) ([]DatasetInfo, error) {
	it := c.bq.Datasets(ctx)
	var out []DatasetInfo
	for {
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing datasets: %w", err)
		}
		md, err := ds.Metadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading dataset %s metadata: %w", ds.DatasetID, err)
		}
		out = append(out, DatasetInfo{ID: ds.DatasetID, Location: md.Location})
	}
	return out, nil
}

// Tables lists all tables in a dataset with their sizes.
func (c *Client) Tables(ctx context.Context, datasetID string) ([]TableInfo, error) {
	it := c.bq.Dataset(datasetID).Tables(ctx)
	var out []TableInfo
	for {
		tbl, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing tables in %s: %w", datasetID, err)
		}
		md, err := tbl.Metadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading table %s metadata: %w", tbl.TableID, err)
		}
		out = append(out, TableInfo{
			DatasetID: datasetID,
			TableID:   tbl.TableID,
			NumRows:   md.NumRows,
			NumBytes:  md.NumBytes,
			Created:   md.CreationTime,
		})
	}
	return out, nil
}

// Schema returns the column names and types of a table.
func (c *Client) Schema(ctx context.Context, datasetID, tableID string) (*tabular.RowSet, error) {
	md, err := c.bq.Dataset(datasetID).Table(tableID).Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading table %s.%s metadata: %w", datasetID, tableID, err)
	}
	rs := tabular.New("name", "type", "required", "description")
	for _, f := range md.Schema {
		rs.Append(f.Name, string(f.Type), f.Required, f.Description)
	}
	return rs, nil
}

// ReadTable downloads a whole table into a RowSet. Meant for small tables;
// large ones should go through Query with a projection.
func (c *Client) ReadTable(ctx context.Context, datasetID, tableID string) (*tabular.RowSet, error) {
	tbl := c.bq.Dataset(datasetID).Table(tableID)
	md, err := tbl.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading table %s.%s metadata: %w", datasetID, tableID, err)
	}

	rs := &tabular.RowSet{}
	for _, f := range md.Schema {
		rs.Columns = append(rs.Columns, f.Name)
	}

	it := tbl.Read(ctx)
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading table %s.%s: %w", datasetID, tableID, err)
		}
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
		}
		rs.Rows = append(rs.Rows, vals)
	}
	return rs, nil
}

// Inventory walks every dataset and table in the project and returns one row
// per table with location and size columns.
func (c *Client) Inventory(ctx context.Context) (*tabular.RowSet, error) {
	datasets, err := c.Datasets(ctx)
	if err != nil {
		return nil, err
	}

	rs := tabular.New("dataset_id", "location", "table_id", "row_count", "size_bytes", "size_mb", "created")
	for _, ds := range datasets {
		c.log.Debug("inventorying dataset", "dataset_id", ds.ID)
		tables, err := c.Tables(ctx, ds.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			rs.Append(ds.ID, ds.Location, t.TableID, t.NumRows, t.NumBytes,
				float64(t.NumBytes)/(1024*1024), t.Created.UTC().Format(time.RFC3339))
		}
	}
	return rs, nil
}

// CreateDataset creates a dataset in the given location.
func (c *Client) CreateDataset(ctx context.Context, datasetID, location string) error {
	md := &bigquery.DatasetMetadata{Location: location}
	if err := c.bq.Dataset(datasetID).Create(ctx, md); err != nil {
		return fmt.Errorf("creating dataset %s: %w", datasetID, err)
	}
	c.log.Info("created dataset", "dataset_id", datasetID, "location", location)
	return nil
}

// Query runs a SQL query and returns all result rows with the job statistics.
func (c *Client) Query(ctx context.Context, sql string) (*tabular.RowSet, *JobSummary, error) {
	q := c.bq.Query(sql)
	job, err := q.Run(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("starting query job: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("waiting for query job: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, nil, fmt.Errorf("query job failed: %w", err)
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reading query results: %w", err)
	}

	rs := &tabular.RowSet{}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("iterating query results: %w", err)
		}
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
		}
		rs.Rows = append(rs.Rows, vals)
	}
	for _, f := range it.Schema {
		rs.Columns = append(rs.Columns, f.Name)
	}

	summary := summarize(job, status)
	c.log.Debug("query finished",
		"job_id", summary.JobID, "rows", rs.NumRows(),
		"cache_hit", summary.CacheHit, "bytes_processed", summary.BytesProcessed)
	return rs, summary, nil
}

// Execute runs a statement that returns no rows, such as DDL or BQML model
// creation.
func (c *Client) Execute(ctx context.Context, sql string) (*JobSummary, error) {
	q := c.bq.Query(sql)
	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting job: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("job failed: %w", err)
	}
	return summarize(job, status), nil
}

// LoadFromGCS loads data from Cloud Storage URIs into a table and waits for
// completion.
func (c *Client) LoadFromGCS(ctx context.Context, datasetID, tableID string, uris []string, format bigquery.DataFormat) (*JobSummary, error) {
	ref := bigquery.NewGCSReference(uris...)
	ref.SourceFormat = format

	loader := c.bq.Dataset(datasetID).Table(tableID).LoaderFrom(ref)
	loader.WriteDisposition = bigquery.WriteAppend

	job, err := loader.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting load job: %w", err)
	}
	c.log.Info("load job started", "job_id", job.ID(), "dataset_id", datasetID, "table_id", tableID)

	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for load job: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("load job failed: %w", err)
	}
	return summarize(job, status), nil
}

func summarize(job *bigquery.Job, status *bigquery.JobStatus) *JobSummary {
	s := &JobSummary{JobID: job.ID()}
	if stats := status.Statistics; stats != nil {
		s.Elapsed = stats.EndTime.Sub(stats.StartTime)
		s.BytesProcessed = stats.TotalBytesProcessed
		if qs, ok := stats.Details.(*bigquery.QueryStatistics); ok {
			s.CacheHit = qs.CacheHit
			s.BytesBilled = qs.TotalBytesBilled
		}
	}
	return s
}
