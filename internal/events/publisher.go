package events

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Publisher wraps the go-shared events publisher for catalog events
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewPublisher creates a new catalog events publisher
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		// Default to GKE internal NATS service URL
		natsURL = "nats://nats.nats.svc.cluster.local:4222"
	}

	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "catalog-service"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create events publisher: %w", err)
	}

	// Ensure the products stream exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.EnsureStream(ctx, events.StreamProducts, []string{"product.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure products stream (may already exist)")
	}

	return &Publisher{
		publisher: publisher,
		logger:    logger.WithField("component", "catalog-events"),
	}, nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
}

// PublishProductCreated publishes a product.created event
func (p *Publisher) PublishProductCreated(ctx context.Context, product *models.Product, tenantID, actorID, actorEmail string) error {
	event := p.buildProductEvent(events.ProductCreated, product, tenantID)
	event.ActorID = actorID
	event.ActorEmail = actorEmail
	event.ChangeType = "created"
	return p.publish(ctx, event)
}

// PublishProductUpdated publishes a product.updated event
func (p *Publisher) PublishProductUpdated(ctx context.Context, product *models.Product, oldProduct *models.Product, tenantID, actorID, actorEmail string) error {
	event := p.buildProductEvent(events.ProductUpdated, product, tenantID)
	event.ActorID = actorID
	event.ActorEmail = actorEmail
	event.ChangeType = "updated"

	if oldProduct != nil {
		event.OldValue = map[string]interface{}{
			"name":  oldProduct.Name,
			"slug":  oldProduct.Slug,
			"price": oldProduct.Price,
		}
	}
	event.NewValue = map[string]interface{}{
		"name":  product.Name,
		"slug":  product.Slug,
		"price": product.Price,
	}

	return p.publish(ctx, event)
}

// PublishProductDeleted publishes a product.deleted event
func (p *Publisher) PublishProductDeleted(ctx context.Context, product *models.Product, tenantID, actorID, actorEmail string) error {
	event := p.buildProductEvent(events.ProductDeleted, product, tenantID)
	event.ActorID = actorID
	event.ActorEmail = actorEmail
	event.ChangeType = "deleted"
	return p.publish(ctx, event)
}

// PublishImportCompleted publishes a summary event after a bulk import run
func (p *Publisher) PublishImportCompleted(ctx context.Context, tenantID, category string, stats models.ImportStats, actorID, actorEmail string) error {
	event := events.NewProductEvent("product.import_completed", tenantID)
	event.SourceID = uuid.New().String()
	event.ActorID = actorID
	event.ActorEmail = actorEmail
	event.ChangeType = "imported"
	event.NewValue = map[string]interface{}{
		"category": category,
		"total":    stats.Total,
		"success":  stats.Success,
		"failed":   stats.Failed,
		"created":  stats.Created,
		"updated":  stats.Updated,
	}
	return p.publish(ctx, event)
}

// buildProductEvent creates a ProductEvent from a product model
func (p *Publisher) buildProductEvent(eventType string, product *models.Product, tenantID string) *events.ProductEvent {
	event := events.NewProductEvent(eventType, tenantID)
	event.SourceID = uuid.New().String()
	event.ProductID = product.ID.String()
	event.ProductName = product.Name
	event.Price = product.Price
	if product.SKU != nil {
		event.SKU = *product.SKU
	}
	if product.Subcategory != nil {
		event.CategoryID = *product.Subcategory
	}
	return event
}

// publish is a helper that logs and publishes events asynchronously
func (p *Publisher) publish(ctx context.Context, event *events.ProductEvent) error {
	// Publish asynchronously to not block the main flow
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publisher.PublishProduct(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"productID": event.ProductID,
				"tenantID":  event.TenantID,
			}).WithError(err).Error("Failed to publish catalog event")
		} else {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"productID": event.ProductID,
				"tenantID":  event.TenantID,
			}).Info("Catalog event published successfully")
		}
	}()

	return nil
}
