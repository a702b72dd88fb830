package controller

import (
	"encoding/json"
	"fmt"
	"strings"

	"procurement/internal/api"
	"procurement/internal/models"
)

// Login request

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ParseLoginReq(data []byte) (*LoginReq, error) {
	t := &LoginReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if err = checkLengthLimit(t.Email, "email", 254); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Password, "password", 128); err != nil {
		return nil, err
	}

	return t, nil
}

// Password requests

type ResetPasswordReq struct {
	Email string `json:"email"`
}

func ParseResetPasswordReq(data []byte) (*ResetPasswordReq, error) {
	t := &ResetPasswordReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Email, "email", 254); err != nil {
		return nil, err
	}

	return t, nil
}

func ParseConfirmResetReq(data []byte) (*api.ConfirmResetRequest, error) {
	t := &api.ConfirmResetRequest{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Token, "token", 256); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Password, "password", 128); err != nil {
		return nil, err
	}

	return t, nil
}

func ParseChangePasswordReq(data []byte) (*api.ChangePasswordRequest, error) {
	t := &api.ChangePasswordRequest{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.OldPassword, "old_password", 128); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.NewPassword, "new_password", 128); err != nil {
		return nil, err
	}

	return t, nil
}

// Comment request

type CommentReq struct {
	Text string `json:"text"`
}

func ParseCommentReq(data []byte) (*CommentReq, error) {
	t := &CommentReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Text, "text", 2000); err != nil {
		return nil, err
	}

	return t, nil
}

// Bid request

func ParseBidReq(data []byte) (*api.BidRequest, error) {
	t := &api.BidRequest{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Currency, "currency", 10); err != nil {
		return nil, err
	}
	for _, lp := range t.LinePrices {
		if lp.LineId.Empty() {
			return nil, fmt.Errorf("line price without 'auction_line' supplied")
		}
	}

	return t, nil
}

// Purchase order status request

type POStatusReq struct {
	Status  *models.POStatus `json:"int_status"`
	Remarks string           `json:"remarks"`
}

func ParsePOStatusReq(data []byte) (*POStatusReq, error) {
	t := &POStatusReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if t.Status == nil {
		return nil, fmt.Errorf("field 'int_status' is required")
	}
	if !models.ValidPOStatus(*t.Status) {
		return nil, fmt.Errorf("invalid purchase order status supplied: %d, should be one of: %d, %d, %d",
			*t.Status, models.PORejected, models.POPending, models.POApproved)
	}
	if err = checkLengthLimit(t.Remarks, "remarks", 500); err != nil {
		return nil, err
	}

	return t, nil
}

// Product requests

func ParseProductReq(data []byte) (*models.Product, error) {
	t := &models.Product{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if err = checkLengthLimit(t.Name, "name", 200); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Brand, "brand", 100); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Category, "category", 100); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Description, "description", 1000); err != nil {
		return nil, err
	}

	return t, nil
}

type ProductChangeReq struct {
	Id      models.ID
	Changes map[string]any
}

var productFieldLimits = map[string]int{
	"name":        200,
	"brand":       100,
	"category":    100,
	"unit":        20,
	"description": 1000,
}

// ParseProductChangeReq keeps only known product fields. The id is required.
func ParseProductChangeReq(data []byte) (*ProductChangeReq, error) {
	vals := make(map[string]interface{})

	err := json.Unmarshal(data, &vals)
	if err != nil {
		return nil, err
	}

	t := &ProductChangeReq{Changes: map[string]any{}}

	switch id := vals["id"].(type) {
	case string:
		t.Id = models.ID(strings.TrimSpace(id))
	case float64:
		t.Id = models.ID(fmt.Sprint(id))
	}
	if t.Id.Empty() {
		return nil, fmt.Errorf("field 'id' is required")
	}

	for key, limit := range productFieldLimits {
		str, ok, err := checkRequestField(vals, key, limit)
		if err != nil {
			return nil, err
		}
		if ok {
			t.Changes[key] = str
		}
	}

	if val, ok := vals["price"]; ok {
		price, ok := val.(float64)
		if !ok {
			return nil, fmt.Errorf("invalid type of 'price' field")
		}
		t.Changes["price"] = price
	}
	if val, ok := vals["is_active"]; ok {
		active, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("invalid type of 'is_active' field")
		}
		t.Changes["is_active"] = active
	}

	return t, nil
}

// Enquiry status request

type EnquiryStatusReq struct {
	Status *models.EnquiryStatus `json:"int_status"`
}

func ParseEnquiryStatusReq(data []byte) (models.EnquiryStatus, error) {
	t := &EnquiryStatusReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return 0, err
	}
	if t.Status == nil {
		return 0, fmt.Errorf("field 'int_status' is required")
	}
	if !models.ValidEnquiryStatus(*t.Status) {
		return 0, fmt.Errorf("invalid enquiry status supplied: %d, should be one of: %d, %d, %d",
			*t.Status, models.EnquiryRejected, models.EnquiryPending, models.EnquiryAcknowledged)
	}

	return *t.Status, nil
}

// Task action request

func ParseTaskActionReq(data []byte) (*api.TaskActionRequest, error) {
	t := &api.TaskActionRequest{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}
	if !models.ValidTaskAction(t.Status) {
		return nil, fmt.Errorf("invalid task action supplied: %s, should be one of: %s, %s",
			t.Status, models.TaskApproved, models.TaskRejected)
	}
	if err = checkLengthLimit(t.Remarks, "remarks", 500); err != nil {
		return nil, err
	}

	return t, nil
}

// Service

func checkLengthLimit(str, fieldName string, limit int) error {
	if len(str) > limit {
		return fmt.Errorf("field '%s' exceeds length limit: %d / %d", fieldName, len(str), limit)
	}
	return nil
}

func checkRequestField(vals map[string]interface{}, key string, lengthLimit int) (string, bool, error) {
	val, ok := vals[key]
	if !ok {
		return "", false, nil
	}

	str, ok := val.(string)
	if !ok {
		return "", false, fmt.Errorf("invalid type of '%s' field", key)
	}

	if err := checkLengthLimit(str, key, lengthLimit); err != nil {
		return "", false, err
	}

	return str, true, nil
}
