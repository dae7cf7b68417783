package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateFactionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *CreateFactionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type TreasuryRequest struct {
	Amount   int    `json:"amount"`
	IsCredit bool   `json:"is_credit"`
	Memo     string `json:"memo"`
}

func (req *TreasuryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
		validation.Field(&req.Memo, validation.Length(0, 200)),
	)
}

type AssignMemberRequest struct {
	UserID uint `json:"user_id"`
}

func (req *AssignMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}
