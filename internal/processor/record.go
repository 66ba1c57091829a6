package processor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wifiscout/scan-ingestion/internal/database"
	"github.com/wifiscout/scan-ingestion/internal/kafka"
	"github.com/wifiscout/scan-ingestion/internal/metrics"
	"github.com/wifiscout/scan-ingestion/internal/payload"
	"github.com/wifiscout/scan-ingestion/internal/validator"
)

// ErrExamplePayload indicates a submission carrying the instructional sample
// record. The whole submission is withheld from storage, batches included.
var ErrExamplePayload = errors.New("payload matches the instructional example")

// NetworkStore is the storage collaborator consumed by the processor.
type NetworkStore interface {
	Save(ctx context.Context, network *database.WiFiNetwork) error
}

// BatchOutcome aggregates the result of one batch submission.
type BatchOutcome struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ResultKind distinguishes the single and batch processing paths.
type ResultKind int

const (
	// SingleResult carries Saved.
	SingleResult ResultKind = iota
	// BatchResult carries Outcome.
	BatchResult
)

// Result is the outcome of one submission.
type Result struct {
	Kind    ResultKind
	Saved   bool
	Outcome BatchOutcome
}

// Processor runs the ingestion pipeline: classify, normalize, validate,
// persist, account.
type Processor struct {
	store   NetworkStore
	events  kafka.Producer
	metrics *metrics.Collector
	logger  *zap.Logger
}

// New creates a new processor
func New(store NetworkStore, events kafka.Producer, collector *metrics.Collector, logger *zap.Logger) *Processor {
	return &Processor{
		store:   store,
		events:  events,
		metrics: collector,
		logger:  logger,
	}
}

// ProcessPayload classifies raw submission text and dispatches to the single
// or batch path. Malformed, scalar and example payloads are rejected whole,
// with no storage calls.
func (p *Processor) ProcessPayload(ctx context.Context, submissionID string, raw []byte) (*Result, error) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveProcessingDuration(time.Since(start).Seconds())
	}()
	p.metrics.ObservePayloadSize(len(raw))

	doc, err := payload.Parse(raw)
	if err != nil {
		reason := "malformed"
		p.metrics.IncSubmissionsFailed(reason)
		p.logger.Warn("rejected submission",
			zap.String("submission_id", submissionID),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, err
	}

	switch doc.Kind {
	case payload.KindArray:
		if payload.ContainsExample(doc.Array) {
			p.metrics.IncSubmissionsFailed("example")
			p.logger.Warn("batch contains the instructional example, rejecting whole submission",
				zap.String("submission_id", submissionID),
				zap.Int("elements", len(doc.Array)))
			return nil, ErrExamplePayload
		}
		p.metrics.IncSubmissions("batch")
		outcome := p.ProcessBatch(ctx, submissionID, doc.Array)
		p.publishBatchCompleted(ctx, submissionID, outcome)
		return &Result{Kind: BatchResult, Outcome: outcome}, nil

	case payload.KindObject:
		if payload.IsExample(doc.Object) {
			p.metrics.IncSubmissionsFailed("example")
			p.logger.Warn("submission matches the instructional example",
				zap.String("submission_id", submissionID))
			return nil, ErrExamplePayload
		}
		p.metrics.IncSubmissions("single")
		saved := p.ProcessRecord(ctx, submissionID, doc.Object)
		return &Result{Kind: SingleResult, Saved: saved}, nil

	default:
		p.metrics.IncSubmissionsFailed("unsupported")
		p.logger.Warn("rejected submission",
			zap.String("submission_id", submissionID),
			zap.String("reason", "unsupported"))
		return nil, payload.ErrUnsupported
	}
}

// ProcessRecord normalizes and validates one candidate, then attempts
// exactly one storage save. Any failure, collaborator panics included, is
// contained here and reported as false.
func (p *Processor) ProcessRecord(ctx context.Context, submissionID string, candidate map[string]any) (saved bool) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.IncRecordsRejected("panic")
			p.logger.Error("record processing panicked",
				zap.String("submission_id", submissionID),
				zap.Any("panic", r))
			saved = false
		}
	}()

	record := validator.Normalize(candidate)

	ok, reason := validator.Validate(record)
	if !ok {
		p.metrics.IncRecordsRejected("validation")
		p.logger.Warn("record failed validation",
			zap.String("submission_id", submissionID),
			zap.String("reason", reason))
		return false
	}

	network, err := database.BuildNetwork(record)
	if err != nil {
		p.metrics.IncRecordsRejected("build")
		p.logger.Warn("record could not be built",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		return false
	}

	if err := p.store.Save(ctx, network); err != nil {
		p.metrics.IncStorageErrors()
		p.metrics.IncRecordsRejected("storage")
		p.logger.Error("failed to save network",
			zap.String("submission_id", submissionID),
			zap.String("bssid", network.BSSID),
			zap.Error(err))
		return false
	}

	p.publishNetworkIngested(ctx, submissionID, network)

	p.metrics.IncRecordsIngested()
	p.logger.Info("network saved",
		zap.String("submission_id", submissionID),
		zap.String("bssid", network.BSSID),
		zap.String("ssid", network.SSID))
	return true
}

// ProcessBatch runs the single-record path over each element, in input
// order. A failing element never aborts the remainder.
func (p *Processor) ProcessBatch(ctx context.Context, submissionID string, items []any) BatchOutcome {
	outcome := BatchOutcome{Total: len(items)}
	if len(items) == 0 {
		p.logger.Info("nothing to process", zap.String("submission_id", submissionID))
		return outcome
	}

	p.metrics.ObserveBatchSize(len(items))
	p.logger.Info("processing batch",
		zap.String("submission_id", submissionID),
		zap.Int("count", len(items)))

	for i, item := range items {
		candidate, ok := item.(map[string]any)
		if !ok {
			outcome.Failed++
			p.metrics.IncRecordsRejected("not_object")
			p.logger.Warn("batch element is not an object",
				zap.String("submission_id", submissionID),
				zap.Int("index", i))
			continue
		}

		if p.ProcessRecord(ctx, submissionID, candidate) {
			outcome.Succeeded++
		} else {
			outcome.Failed++
		}
	}

	p.logger.Info("batch completed",
		zap.String("submission_id", submissionID),
		zap.Int("total", outcome.Total),
		zap.Int("succeeded", outcome.Succeeded),
		zap.Int("failed", outcome.Failed))
	return outcome
}

func (p *Processor) publishNetworkIngested(ctx context.Context, submissionID string, network *database.WiFiNetwork) {
	event := kafka.NetworkIngestedEvent{
		SubmissionID: submissionID,
		BSSID:        network.BSSID,
		SSID:         network.SSID,
		Frequency:    network.Frequency,
		RSSI:         network.RSSI,
		IngestedAt:   time.Now().Unix(),
	}
	if err := p.events.PublishNetworkIngested(ctx, event); err != nil {
		// Event publishing never fails the record itself.
		p.metrics.IncPublishErrors()
		p.logger.Error("failed to publish network ingested event",
			zap.String("submission_id", submissionID),
			zap.Error(err))
	}
}

func (p *Processor) publishBatchCompleted(ctx context.Context, submissionID string, outcome BatchOutcome) {
	event := kafka.BatchCompletedEvent{
		SubmissionID: submissionID,
		Total:        outcome.Total,
		Succeeded:    outcome.Succeeded,
		Failed:       outcome.Failed,
		CompletedAt:  time.Now().Unix(),
	}
	if err := p.events.PublishBatchCompleted(ctx, event); err != nil {
		p.metrics.IncPublishErrors()
		p.logger.Error("failed to publish batch completed event",
			zap.String("submission_id", submissionID),
			zap.Error(err))
	}
}
