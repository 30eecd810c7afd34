// Quake2Touch Launcher
// Copyright (c) 2026 The Quake2Touch Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Quake2Touch Launcher.
//
// Quake2Touch Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Quake2Touch Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Quake2Touch Launcher.  If not, see <http://www.gnu.org/licenses/>.

package launcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/quake2touch/launcher/pkg/games"
)

// Request describes one launch. Mode decides which of the optional fields
// are required.
type Request struct {
	Game     string `validate:"required,gamename"`
	Mode     Mode   `validate:"required,oneof=single host join"`
	GameMode string `validate:"omitempty,alphanum"`
	Server   string `validate:"omitempty,hostname_port|hostname_rfc1123|ip"`
	Player   string `validate:"omitempty,printascii,max=32"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Value   any
	Field   string
	Tag     string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("gamename", validateGameName)
	v.RegisterStructValidation(validateModeFields, Request{})
	return &Validator{validate: v}
}

var DefaultValidator = NewValidator()

func (v *Validator) Validate(req Request) error {
	if err := v.validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return newValidationError(errs)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func validateGameName(fl validator.FieldLevel) bool {
	return games.ValidateName(fl.Field().String()) == nil
}

// validateModeFields requires the game mode when hosting and the server
// and player name when joining.
func validateModeFields(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(Request)
	if !ok {
		return
	}
	switch req.Mode {
	case ModeHost:
		if req.GameMode == "" {
			sl.ReportError(req.GameMode, "GameMode", "GameMode", "required_for_host", "")
		}
	case ModeJoin:
		if req.Server == "" {
			sl.ReportError(req.Server, "Server", "Server", "required_for_join", "")
		}
		if req.Player == "" {
			sl.ReportError(req.Player, "Player", "Player", "required_for_join", "")
		}
	case ModeSingle:
	}
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{Fields: make([]FieldError, len(errs))}
	for i, fe := range errs {
		ve.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: formatFieldError(fe),
		}
	}
	return ve
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_for_host":
		return field + " is required to host a game"
	case "required_for_join":
		return field + " is required to join a game"
	case "gamename":
		return fmt.Sprintf("%q is not a valid game name", fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "hostname_port|hostname_rfc1123|ip":
		return fmt.Sprintf("%q is not a valid server address", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
