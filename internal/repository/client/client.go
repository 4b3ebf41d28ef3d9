package clientrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/model"
	"github.com/creditos/creditos-backend/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clientRepository struct {
	db                 *gorm.DB
	meter              metric.Meter
	tracer             trace.Tracer
	log                *zap.Logger
	queryDuration      metric.Float64Histogram
	queryCount         metric.Int64Counter
	errorCount         metric.Int64Counter
	documentsRetrieved metric.Int64Counter
}

func (r *clientRepository) find(ctx context.Context, operation string, id uint64, lock bool) (*domain.Client, error) {
	ctx, span := r.tracer.Start(ctx, "repository."+operation)
	defer span.End()

	start := time.Now()

	r.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "clients"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.table", "clients"),
		attribute.String("client.id", fmt.Sprintf("%d", id)),
		attribute.String("trace_id", span.SpanContext().TraceID().String()),
	)

	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var client model.Client
	if err := query.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Ok, "Client not found")

			r.log.Info("Client not found by ID",
				zap.Uint64("id", id),
				zap.String("trace_id", span.SpanContext().TraceID().String()),
			)

			r.recordDuration(ctx, start, operation, "not_found")
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding client by ID")
		span.RecordError(err)

		r.log.Error("Error finding client by ID",
			zap.Uint64("id", id),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		r.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("table", "clients"),
				attribute.String("error", err.Error()),
			),
		)

		r.recordDuration(ctx, start, operation, "error")
		return nil, err
	}

	r.documentsRetrieved.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("table", "clients"),
		),
	)
	r.recordDuration(ctx, start, operation, "success")

	r.log.Debug("Client found by ID",
		zap.Uint64("id", id),
		zap.String("cedula", client.Cedula),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)

	span.SetStatus(codes.Ok, "Client found by ID")
	span.SetAttributes(
		attribute.String("client.cedula", client.Cedula),
	)

	return model.ClientToEntity(client), nil
}

func (r *clientRepository) recordDuration(ctx context.Context, start time.Time, operation, status string) {
	duration := float64(time.Since(start).Milliseconds())
	r.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "clients"),
			attribute.String("status", status),
		),
	)
}

// FindByID implements repository.ClientRepository.
func (r *clientRepository) FindByID(ctx context.Context, id uint64) (*domain.Client, error) {
	return r.find(ctx, "select", id, false)
}

// FindByIDWithLock implements repository.ClientRepository. The caller must
// construct the repository over a transaction handle for the lock to hold.
func (r *clientRepository) FindByIDWithLock(ctx context.Context, id uint64) (*domain.Client, error) {
	return r.find(ctx, "select_for_update", id, true)
}

func NewClientRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.ClientRepository {
	queryDuration, _ := meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Duration of database queries"),
		metric.WithUnit("ms"),
	)

	queryCount, _ := meter.Int64Counter(
		"db.query.count",
		metric.WithDescription("Number of database queries"),
		metric.WithUnit("{query}"),
	)

	errorCount, _ := meter.Int64Counter(
		"db.error.count",
		metric.WithDescription("Number of database errors"),
		metric.WithUnit("{error}"),
	)

	documentsRetrieved, _ := meter.Int64Counter(
		"db.documents.retrieved",
		metric.WithDescription("Number of documents retrieved from the database"),
		metric.WithUnit("{document}"),
	)

	return &clientRepository{
		db:                 db,
		meter:              meter,
		tracer:             tracer,
		log:                log,
		queryDuration:      queryDuration,
		queryCount:         queryCount,
		errorCount:         errorCount,
		documentsRetrieved: documentsRetrieved,
	}
}
