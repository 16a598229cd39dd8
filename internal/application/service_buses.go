package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
)

func (s *Service) ListBuses(ctx context.Context) ([]BusView, error) {
	buses, err := s.buses.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BusView, 0, len(buses))
	for _, b := range buses {
		out = append(out, toBusView(b))
	}
	return out, nil
}

func (s *Service) GetBus(ctx context.Context, busID string) (BusView, error) {
	id, err := parseID(busID, "bus id")
	if err != nil {
		return BusView{}, err
	}
	bus, err := s.buses.GetByID(ctx, id, s.cfg.BusScheduleLimit)
	if err != nil {
		return BusView{}, err
	}
	return toBusView(bus), nil
}

// ListOwnerBuses returns the actor's fleet. Admins must name the owner explicitly.
func (s *Service) ListOwnerBuses(ctx context.Context, actor domain.Actor, ownerID string) ([]BusView, error) {
	var id uuid.UUID
	switch actor.Role {
	case domain.RoleOwner:
		id = actor.UserID
	case domain.RoleAdmin:
		if strings.TrimSpace(ownerID) == "" {
			return nil, fmt.Errorf("%w: ownerId is required", domain.ErrInvalidInput)
		}
		parsed, err := parseID(ownerID, "ownerId")
		if err != nil {
			return nil, err
		}
		id = parsed
	default:
		return nil, fmt.Errorf("%w: only bus owners have a fleet", domain.ErrForbidden)
	}
	buses, err := s.buses.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]BusView, 0, len(buses))
	for _, b := range buses {
		out = append(out, toBusView(b))
	}
	return out, nil
}

func (s *Service) CreateBus(ctx context.Context, actor domain.Actor, req CreateBusRequest) (BusView, error) {
	var ownerID uuid.UUID
	switch actor.Role {
	case domain.RoleOwner:
		owner, err := s.users.GetByID(ctx, actor.UserID)
		if err != nil {
			return BusView{}, err
		}
		if !owner.IsApproved {
			return BusView{}, domain.ErrOwnerNotApproved
		}
		ownerID = owner.UserID
	case domain.RoleAdmin:
		id, err := parseID(req.OwnerID, "ownerId")
		if err != nil {
			return BusView{}, err
		}
		owner, err := s.users.GetByID(ctx, id)
		if err != nil {
			return BusView{}, err
		}
		if owner.Role != domain.RoleOwner {
			return BusView{}, domain.ErrNotOwnerAccount
		}
		ownerID = owner.UserID
	default:
		return BusView{}, fmt.Errorf("%w: only bus owners can create buses", domain.ErrForbidden)
	}

	busType, err := domain.ParseBusType(req.BusType)
	if err != nil {
		return BusView{}, err
	}
	now := s.nowFn()
	bus := domain.Bus{
		OwnerID:    ownerID,
		BusNumber:  strings.TrimSpace(req.BusNumber),
		BusName:    strings.TrimSpace(req.BusName),
		BusType:    busType,
		TotalSeats: req.TotalSeats,
		Amenities:  cleanStrings(req.Amenities),
		Rating:     0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := bus.Validate(); err != nil {
		return BusView{}, err
	}
	if len(req.Images) > domain.MaxBusImages {
		return BusView{}, fmt.Errorf("%w: at most %d images per bus", domain.ErrInvalidInput, domain.MaxBusImages)
	}

	uploaded := make([]ports.StoredImage, 0, len(req.Images))
	for _, img := range req.Images {
		stored, err := s.uploadImage(ctx, s.cfg.BusImageFolder, img)
		if err != nil {
			s.discardImages(ctx, uploaded)
			return BusView{}, err
		}
		uploaded = append(uploaded, stored)
		bus.Images = append(bus.Images, stored.URL)
	}

	created, err := s.buses.Create(ctx, bus)
	if err != nil {
		s.discardImages(ctx, uploaded)
		return BusView{}, err
	}
	appLogger().InfoContext(ctx, "bus created",
		"operation", "create_bus",
		"outcome", "success",
		"bus_id", created.BusID.String(),
		"owner_id", ownerID.String(),
		"image_count", len(created.Images),
	)
	return toBusView(created), nil
}

func (s *Service) UpdateBus(ctx context.Context, actor domain.Actor, busID string, req UpdateBusRequest) (BusView, error) {
	id, err := parseID(busID, "bus id")
	if err != nil {
		return BusView{}, err
	}
	bus, err := s.requireBusAccess(ctx, actor, id)
	if err != nil {
		return BusView{}, err
	}

	patch := ports.BusPatch{}
	if name := strings.TrimSpace(req.BusName); name != "" {
		patch.BusName = &name
	}
	if req.BusType != "" {
		busType, err := domain.ParseBusType(req.BusType)
		if err != nil {
			return BusView{}, err
		}
		patch.BusType = &busType
	}
	if req.TotalSeats != 0 {
		if req.TotalSeats < 1 {
			return BusView{}, fmt.Errorf("%w: totalSeats must be at least 1", domain.ErrInvalidInput)
		}
		patch.TotalSeats = &req.TotalSeats
	}
	if req.Amenities != nil {
		patch.Amenities = cleanStrings(req.Amenities)
	}
	room := domain.MaxBusImages - len(bus.Images)
	for i, img := range req.Images {
		if i >= room {
			appLogger().WarnContext(ctx, "bus image limit reached; extra images ignored",
				"operation", "update_bus",
				"outcome", "partial",
				"bus_id", id.String(),
			)
			break
		}
		stored, err := s.uploadImage(ctx, s.cfg.BusImageFolder, img)
		if err != nil {
			appLogger().WarnContext(ctx, "bus image upload failed",
				"operation", "update_bus",
				"outcome", "partial",
				"bus_id", id.String(),
				"error", err,
			)
			continue
		}
		patch.AppendImages = append(patch.AppendImages, stored.URL)
	}

	updated, err := s.buses.Update(ctx, id, patch)
	if err != nil {
		return BusView{}, err
	}
	return toBusView(updated), nil
}

func (s *Service) DeleteBus(ctx context.Context, actor domain.Actor, busID string) error {
	id, err := parseID(busID, "bus id")
	if err != nil {
		return err
	}
	if _, err := s.requireBusAccess(ctx, actor, id); err != nil {
		return err
	}
	return s.buses.Delete(ctx, id)
}

func (s *Service) discardImages(ctx context.Context, images []ports.StoredImage) {
	for _, img := range images {
		if img.PublicID == "" {
			continue
		}
		if err := s.images.Delete(ctx, img.PublicID); err != nil {
			appLogger().WarnContext(ctx, "orphaned image cleanup failed",
				"operation", "discard_image",
				"outcome", "failure",
				"public_id", img.PublicID,
				"error", err,
			)
		}
	}
}
