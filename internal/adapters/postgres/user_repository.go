package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user domain.User, event ports.OutboxEvent) (domain.User, error) {
	var result domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := toUserModel(user)
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		event.Payload = withField(event.Payload, "user_id", rec.UserID.String())
		event.PartitionKey = rec.UserID.String()
		outbox := toOutboxModel(event)
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}
		result = toDomainUser(rec)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return result, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return r.take(ctx, "user_id = ?", userID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.take(ctx, "email = ?", email)
}

func (r *userRepository) GetByVerifyTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	return r.take(ctx, "verify_token_hash = ?", tokenHash)
}

func (r *userRepository) take(ctx context.Context, query string, arg any) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&rec).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", string(role))
	}
	var rows []userModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainUser(row))
	}
	return out, nil
}

func (r *userRepository) Update(ctx context.Context, userID uuid.UUID, patch ports.UserPatch, event *ports.OutboxEvent) (domain.User, error) {
	var result domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"updated_at": time.Now().UTC()}
		if patch.IsApproved != nil {
			updates["is_approved"] = *patch.IsApproved
		}
		if patch.EmailVerified != nil {
			updates["email_verified"] = *patch.EmailVerified
		}
		if patch.ClearVerifyToken {
			updates["verify_token_hash"] = nil
			updates["verify_expires_at"] = nil
		}
		res := tx.Model(&userModel{}).Where("user_id = ?", userID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if event != nil {
			outbox := toOutboxModel(*event)
			if err := tx.Create(&outbox).Error; err != nil {
				return err
			}
		}
		var rec userModel
		if err := tx.Where("user_id = ?", userID).Take(&rec).Error; err != nil {
			return err
		}
		result = toDomainUser(rec)
		return nil
	})
	if err != nil {
		return domain.User{}, translate(err)
	}
	return result, nil
}

// Delete removes the account. Buses cascade; bookings block the delete with ErrConflict.
func (r *userRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// withField adds key to a JSON object payload once the database has assigned it.
func withField(payload []byte, key string, value any) []byte {
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return payload
	}
	obj[key] = value
	adjusted, err := json.Marshal(obj)
	if err != nil {
		return payload
	}
	return adjusted
}
