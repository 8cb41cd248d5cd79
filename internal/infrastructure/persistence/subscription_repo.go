package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

const subscriptionColumns = `user_id, stripe_customer_id, stripe_subscription_id, plan_name,
	billing_cycle, status, reports_limit, current_period_start, current_period_end,
	cancel_at_period_end, updated_at`

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Get(ctx context.Context, userID string) (entity.Subscription, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r *SubscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (entity.Subscription, error) {
	return r.getBy(ctx, "stripe_subscription_id", stripeSubscriptionID)
}

func (r *SubscriptionRepository) getBy(ctx context.Context, column, value string) (entity.Subscription, error) {
	var schema subscriptionSchema

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE ` + column + ` = $1`
	if err := r.db.GetContext(ctx, &schema, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Subscription{}, domain.NewError(errcodes.SubscriptionNotFound, "Subscription not found")
		}

		return entity.Subscription{}, internal(err, "failed to get subscription")
	}

	return schema.toDomain(), nil
}

// Upsert writes the whole row keyed by user id. A nil customer id keeps the
// stored one.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub entity.Subscription) error {
	schema := fromSubscription(sub)
	schema.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES (
			:user_id, :stripe_customer_id, :stripe_subscription_id, :plan_name,
			:billing_cycle, :status, :reports_limit, :current_period_start, :current_period_end,
			:cancel_at_period_end, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = COALESCE(EXCLUDED.stripe_customer_id, subscriptions.stripe_customer_id),
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			plan_name = EXCLUDED.plan_name,
			billing_cycle = EXCLUDED.billing_cycle,
			status = EXCLUDED.status,
			reports_limit = EXCLUDED.reports_limit,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return internal(err, "failed to upsert subscription")
	}

	return nil
}

func (r *SubscriptionRepository) SetCustomerID(ctx context.Context, userID, customerID string) error {
	query := `
		INSERT INTO subscriptions (user_id, stripe_customer_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, userID, customerID, time.Now().UTC()); err != nil {
		return internal(err, "failed to store customer id")
	}

	return nil
}

func (r *SubscriptionRepository) DeleteByStripeID(ctx context.Context, stripeSubscriptionID string) error {
	query := `DELETE FROM subscriptions WHERE stripe_subscription_id = $1`
	if _, err := r.db.ExecContext(ctx, query, stripeSubscriptionID); err != nil {
		return internal(err, "failed to delete subscription")
	}

	return nil
}
