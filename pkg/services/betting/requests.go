package betting

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError turns validator output into a VALIDATION_ERROR
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return types.WrapError(types.ErrValidation, "invalid input", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return types.WrapError(types.ErrValidation, "invalid input: "+strings.Join(msgs, "; "), err)
}

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
}

func (r *RegisterUserRequest) Validate() error {
	return validationError(validate.Struct(r))
}

type CreateBetRequest struct {
	Title         string                    `json:"title" validate:"required,min=5,max=100"`
	Description   string                    `json:"description" validate:"required,min=10,max=1000"`
	Deadline      time.Time                 `json:"deadline" validate:"required"`
	Category      entities.Category         `json:"category" validate:"required,oneof=FITNESS STUDY GAMING SOCIAL WORK FOOD CHALLENGE OTHER"`
	ProofRequired entities.ProofRequirement `json:"proofRequired" validate:"omitempty,oneof=NONE IMAGE VIDEO TEXT"`
}

func (r *CreateBetRequest) Validate() error {
	return validationError(validate.Struct(r))
}

// PlacePredictionRequest is a stake on one side of a bet. Punishment is an
// optional challenge an AGAINST bettor proposes for the creator.
type PlacePredictionRequest struct {
	Choice     entities.Choice `json:"choice" validate:"required,oneof=FOR AGAINST"`
	Stake      int64           `json:"stake" validate:"min=10,max=1000"`
	Punishment string          `json:"punishment,omitempty" validate:"omitempty,min=5,max=500"`
}

func (r *PlacePredictionRequest) Validate() error {
	r.Punishment = strings.TrimSpace(r.Punishment)
	return validationError(validate.Struct(r))
}

type ResolveRequest struct {
	Result   entities.BetResult `json:"result" validate:"required,oneof=WON LOST"`
	ProofURL string             `json:"proofUrl,omitempty" validate:"omitempty,url"`
}

func (r *ResolveRequest) Validate() error {
	return validationError(validate.Struct(r))
}

type SubmitProofRequest struct {
	ProofURL string `json:"proofUrl" validate:"required,url"`
}

func (r *SubmitProofRequest) Validate() error {
	return validationError(validate.Struct(r))
}

type ProofVoteRequest struct {
	Vote entities.Vote `json:"vote" validate:"required,oneof=ACCEPT REJECT"`
}

func (r *ProofVoteRequest) Validate() error {
	return validationError(validate.Struct(r))
}

type PunishmentRequest struct {
	Description string                  `json:"description" validate:"required,min=5,max=500"`
	Type        entities.PunishmentType `json:"type" validate:"required,oneof=NICKNAME CHALLENGE VIDEO PHOTO TASK OTHER"`
}

func (r *PunishmentRequest) Validate() error {
	return validationError(validate.Struct(r))
}
