package store

import "context"

// PushSubscription stores a browser push endpoint registered for booking
// notifications.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	P256DH   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// SavePushSubscription inserts or refreshes a push subscription.
func (db *DB) SavePushSubscription(ctx context.Context, sub *PushSubscription) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO push_subscriptions (endpoint, p256dh, auth)
		VALUES (?, ?, ?)
		ON CONFLICT(endpoint) DO UPDATE SET p256dh = excluded.p256dh, auth = excluded.auth`,
		sub.Endpoint, sub.P256DH, sub.Auth,
	)
	return err
}

// DeletePushSubscription removes a push subscription by endpoint.
func (db *DB) DeletePushSubscription(ctx context.Context, endpoint string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM push_subscriptions WHERE endpoint = ?", endpoint)
	return err
}

// ListPushSubscriptions returns every registered push subscription.
func (db *DB) ListPushSubscriptions(ctx context.Context) ([]PushSubscription, error) {
	rows, err := db.QueryContext(ctx, "SELECT endpoint, p256dh, auth FROM push_subscriptions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []PushSubscription
	for rows.Next() {
		var s PushSubscription
		if err := rows.Scan(&s.Endpoint, &s.P256DH, &s.Auth); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
