package repository

import (
	"context"
	"database/sql"

	"github.com/foodwaste/portal/internal/domain"
)

// ListReceivers returns every receiver in store order.
func (r *SQLRepository) ListReceivers(ctx context.Context) ([]domain.Receiver, error) {
	query := `
		SELECT Receiver_ID, Name, City, Contact
		FROM receivers
	`

	receivers, err := queryAll(ctx, r, query, nil, func(rows *sql.Rows, rc *domain.Receiver) error {
		return rows.Scan(&rc.ID, &rc.Name, &rc.City, &rc.Contact)
	})
	if err != nil {
		return nil, storeErr("list receivers", err)
	}
	return receivers, nil
}

// AddReceiver inserts a receiver.
func (r *SQLRepository) AddReceiver(ctx context.Context, in domain.ReceiverInput) error {
	query := `
		INSERT INTO receivers (Name, City, Contact)
		VALUES (?, ?, ?)
	`

	return r.exec(ctx, "add receiver", query, in.Name, in.City, in.Contact)
}

// UpdateReceiver has the same zero-rows-is-success contract as UpdateProvider.
func (r *SQLRepository) UpdateReceiver(ctx context.Context, id int64, in domain.ReceiverInput) error {
	query := `
		UPDATE receivers
		SET Name = ?, City = ?, Contact = ?
		WHERE Receiver_ID = ?
	`

	return r.exec(ctx, "update receiver", query, in.Name, in.City, in.Contact, id)
}

// DeleteReceiver removes the receiver with the given id.
func (r *SQLRepository) DeleteReceiver(ctx context.Context, id int64) error {
	return r.exec(ctx, "delete receiver", `DELETE FROM receivers WHERE Receiver_ID = ?`, id)
}
