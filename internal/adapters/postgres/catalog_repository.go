package postgres

import (
	"context"

	"github.com/easysewa/booking-service/internal/domain"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

func (r *catalogRepository) ListRoutes(ctx context.Context, limit int) ([]domain.Route, error) {
	var rows []routeModel
	if err := r.db.WithContext(ctx).
		Order("popularity_score DESC, created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Route, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainRoute(row))
	}
	return out, nil
}

func (r *catalogRepository) CreateRoute(ctx context.Context, route domain.Route) (domain.Route, error) {
	rec := routeModel{
		From:            route.From,
		To:              route.To,
		PopularityScore: route.PopularityScore,
		Image:           route.Image,
		CreatedAt:       route.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Route{}, translate(err)
	}
	return toDomainRoute(rec), nil
}

func (r *catalogRepository) ListTestimonials(ctx context.Context, limit int) ([]domain.Testimonial, error) {
	var rows []testimonialModel
	if err := r.db.WithContext(ctx).
		Order("review_date DESC, created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Testimonial, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTestimonial(row))
	}
	return out, nil
}

func (r *catalogRepository) CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	rec := testimonialModel{
		UserName:   t.UserName,
		UserImage:  t.UserImage,
		Rating:     t.Rating,
		Comment:    t.Comment,
		ReviewDate: t.Date,
		CreatedAt:  t.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Testimonial{}, translate(err)
	}
	return toDomainTestimonial(rec), nil
}
