package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByEmail returns the user plus password hash for credential checks.
func (r UserRepository) GetByEmail(email string) (models.User, string, error) {
	var u models.User
	var hash string
	err := r.db().QueryRow(`
		SELECT id, name, email, phone, role, status, password_hash
		FROM users WHERE email = ? LIMIT 1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status, &hash,
	)
	if err == sql.ErrNoRows {
		return models.User{}, "", domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, "", domain.InternalError{Err: err}
	}
	return u, hash, nil
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, name, email, phone, role, status
		FROM users WHERE id = ? LIMIT 1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

func (r UserRepository) Insert(name, email, phone, passwordHash, role string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, 'active')
	`, strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)),
		strings.TrimSpace(phone), passwordHash, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) CountByEmail(email string) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

func (r UserRepository) List() ([]models.User, error) {
	rows, err := r.db().Query(`
		SELECT id, name, email, phone, role, status FROM users ORDER BY id ASC
	`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) UpdateRole(id int64, role string) error {
	res, err := r.db().Exec(`UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
	}
	return nil
}
