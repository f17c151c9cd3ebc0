package service

import (
	"regexp"
	"time"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/errors"
)

var hexColorRegexp = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func validKind(k entity.Kind) bool {
	return k == entity.KindBanner || k == entity.KindHeroSlider
}

func validDevice(d entity.Device) bool {
	switch d {
	case entity.DeviceDesktop, entity.DeviceMobile, entity.DeviceTablet, entity.DeviceAll:
		return true
	}
	return false
}

func validStatus(s entity.Status) bool {
	switch s {
	case entity.StatusDraft, entity.StatusScheduled, entity.StatusActive, entity.StatusInactive:
		return true
	}
	return false
}

func validDisplayType(d entity.DisplayType) bool {
	switch d {
	case entity.DisplayImage, entity.DisplayVideo, entity.DisplayMixed:
		return true
	}
	return false
}

func validateColor(c string) error {
	if c != "" && !hexColorRegexp.MatchString(c) {
		return errors.NewDomainError(errors.ErrValidation, "%q is not a hex color", c)
	}
	return nil
}

func validateABTestWeight(w int) error {
	if w < 0 || w > 100 {
		return errors.NewDomainError(errors.ErrValidation, "ab test weight %d is out of [0,100]", w)
	}
	return nil
}

// validateSchedule enforces the scheduling invariant: a scheduled
// placement needs both window bounds, in order.
func validateSchedule(isScheduled bool, start, end *time.Time) error {
	if !isScheduled {
		return nil
	}
	if start == nil || end == nil {
		return errors.NewDomainError(errors.ErrValidation, "scheduled placement requires both start and end dates")
	}
	if start.After(*end) {
		return errors.NewDomainError(errors.ErrValidation, "start date is after end date")
	}
	return nil
}

func validateCreate(dto entity.CreatePlacementDTO) error {
	if !validKind(dto.Kind) {
		return errors.NewDomainError(errors.ErrValidation, "unknown kind %q", dto.Kind)
	}
	if dto.TitleLine1 == "" {
		return errors.NewDomainError(errors.ErrValidation, "title is required")
	}
	if dto.Image == "" && dto.VideoURL == "" {
		return errors.NewDomainError(errors.ErrValidation, "image or video is required")
	}
	if dto.Device != "" && !validDevice(dto.Device) {
		return errors.NewDomainError(errors.ErrValidation, "unknown device %q", dto.Device)
	}
	if dto.Status != "" && !validStatus(dto.Status) {
		return errors.NewDomainError(errors.ErrValidation, "unknown status %q", dto.Status)
	}
	if dto.DisplayType != "" && !validDisplayType(dto.DisplayType) {
		return errors.NewDomainError(errors.ErrValidation, "unknown display type %q", dto.DisplayType)
	}
	if err := validateColor(dto.BackgroundColor); err != nil {
		return err
	}
	if err := validateColor(dto.TextColor); err != nil {
		return err
	}
	if err := validateABTestWeight(dto.ABTestWeight); err != nil {
		return err
	}
	if dto.AnimationDuration < 0 || dto.AutoplayDelay < 0 {
		return errors.NewDomainError(errors.ErrValidation, "animation duration and autoplay delay must not be negative")
	}
	return validateSchedule(dto.IsScheduled, dto.StartDate, dto.EndDate)
}

// validatePatch checks the patch fields that need no current record:
// enums, colors, weights. The scheduling triple is not covered here,
// it depends on the state being patched.
func validatePatch(dto entity.UpdatePlacementDTO) error {
	if dto.Device != nil && !validDevice(*dto.Device) {
		return errors.NewDomainError(errors.ErrValidation, "unknown device %q", *dto.Device)
	}
	if dto.Status != nil && !validStatus(*dto.Status) {
		return errors.NewDomainError(errors.ErrValidation, "unknown status %q", *dto.Status)
	}
	if dto.DisplayType != nil && !validDisplayType(*dto.DisplayType) {
		return errors.NewDomainError(errors.ErrValidation, "unknown display type %q", *dto.DisplayType)
	}
	if dto.TitleLine1 != nil && *dto.TitleLine1 == "" {
		return errors.NewDomainError(errors.ErrValidation, "title must not be empty")
	}
	if dto.BackgroundColor != nil {
		if err := validateColor(*dto.BackgroundColor); err != nil {
			return err
		}
	}
	if dto.TextColor != nil {
		if err := validateColor(*dto.TextColor); err != nil {
			return err
		}
	}
	if dto.ABTestWeight != nil {
		if err := validateABTestWeight(*dto.ABTestWeight); err != nil {
			return err
		}
	}
	return nil
}

// validateUpdate checks a patch against the current record, so the
// scheduling invariant is evaluated on the post-patch state.
func validateUpdate(current entity.Placement, dto entity.UpdatePlacementDTO) error {
	if err := validatePatch(dto); err != nil {
		return err
	}

	isScheduled := current.IsScheduled
	if dto.IsScheduled != nil {
		isScheduled = *dto.IsScheduled
	}
	start := current.StartDate
	if dto.StartDate != nil {
		start = dto.StartDate
	}
	end := current.EndDate
	if dto.EndDate != nil {
		end = dto.EndDate
	}

	return validateSchedule(isScheduled, start, end)
}
