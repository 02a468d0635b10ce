package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

// UserRepository reads the users database. Users and addresses are global,
// not store-sharded, so this repository holds a single handle.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}

	query := `SELECT id, username, email, password FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.Email, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (username, email, password) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.Password)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error) {
	user := &entity.User{}

	query := `SELECT id, username, email, password FROM users WHERE email = ? AND password = ?`
	err := r.db.QueryRowContext(ctx, query, email, password).Scan(&user.ID, &user.Username, &user.Email, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetAddress returns the address only when it belongs to the given user.
func (r *UserRepository) GetAddress(ctx context.Context, userID, addressID int) (*entity.Address, error) {
	address := &entity.Address{}

	query := `SELECT id, user_id, line1, city, postal_code FROM addresses WHERE id = ? AND user_id = ?`
	err := r.db.QueryRowContext(ctx, query, addressID, userID).Scan(
		&address.ID, &address.UserID, &address.Line1, &address.City, &address.PostalCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return address, nil
}
