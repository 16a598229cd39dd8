package application

import (
	"context"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
)

func (s *Service) ListPopularRoutes(ctx context.Context, limit int) ([]RouteView, error) {
	if limit <= 0 || limit > s.cfg.CatalogLimit {
		limit = s.cfg.CatalogLimit
	}
	routes, err := s.catalog.ListRoutes(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RouteView, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteView(r))
	}
	return out, nil
}

func (s *Service) CreateRoute(ctx context.Context, req CreateRouteRequest) (RouteView, error) {
	route := domain.Route{
		From:            strings.TrimSpace(req.From),
		To:              strings.TrimSpace(req.To),
		PopularityScore: req.PopularityScore,
		Image:           strings.TrimSpace(req.Image),
		CreatedAt:       s.nowFn(),
	}
	if err := route.Validate(); err != nil {
		return RouteView{}, err
	}
	created, err := s.catalog.CreateRoute(ctx, route)
	if err != nil {
		return RouteView{}, err
	}
	return toRouteView(created), nil
}

func (s *Service) ListTestimonials(ctx context.Context, limit int) ([]TestimonialView, error) {
	if limit <= 0 || limit > s.cfg.CatalogLimit {
		limit = s.cfg.CatalogLimit
	}
	items, err := s.catalog.ListTestimonials(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]TestimonialView, 0, len(items))
	for _, t := range items {
		out = append(out, toTestimonialView(t))
	}
	return out, nil
}

func (s *Service) CreateTestimonial(ctx context.Context, req CreateTestimonialRequest) (TestimonialView, error) {
	now := s.nowFn()
	date := now
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			return TestimonialView{}, err
		}
		date = parsed
	}
	t := domain.Testimonial{
		UserName:  strings.TrimSpace(req.UserName),
		UserImage: strings.TrimSpace(req.UserImage),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		Date:      date,
		CreatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return TestimonialView{}, err
	}
	created, err := s.catalog.CreateTestimonial(ctx, t)
	if err != nil {
		return TestimonialView{}, err
	}
	return toTestimonialView(created), nil
}
