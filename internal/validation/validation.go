// Package validation turns untyped request input into constrained model values.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BuzzLyutic/taskmaster-api/internal/model"
)

var ErrValidation = errors.New("validation error")

// Error carries every violated constraint of one payload.
type Error struct {
	Reasons []string
}

func (e *Error) Error() string {
	return strings.Join(e.Reasons, "; ")
}

func (e *Error) Unwrap() error {
	return ErrValidation
}

const (
	titleMax       = 200
	descriptionMax = 5000
)

const statusMessage = `Status must be either "PENDING" or "COMPLETED"`

var validate = validator.New(validator.WithRequiredStructEnabled())

// rule pairs a validator tag string with the message reported per failing tag.
type rule struct {
	tags     string
	messages map[string]string
}

var (
	createTitle = rule{
		tags: fmt.Sprintf("required,max=%d", titleMax),
		messages: map[string]string{
			"required": "Title is required",
			"max":      "Title must be 200 characters or less",
		},
	}
	updateTitle = rule{
		tags: fmt.Sprintf("min=1,max=%d", titleMax),
		messages: map[string]string{
			"min": "Title must not be empty",
			"max": "Title must be 200 characters or less",
		},
	}
	description = rule{
		tags:     fmt.Sprintf("max=%d", descriptionMax),
		messages: map[string]string{"max": "Description must be 5000 characters or less"},
	}
	status = rule{
		tags: "required,oneof=PENDING COMPLETED",
		messages: map[string]string{
			"required": statusMessage,
			"oneof":    statusMessage,
		},
	}
	limit = rule{
		tags:     fmt.Sprintf("min=1,max=%d", model.MaxLimit),
		messages: map[string]string{"*": "Limit must be an integer between 1 and 100"},
	}
	offset = rule{
		tags:     "min=0",
		messages: map[string]string{"*": "Offset must be a non-negative integer"},
	}
)

func (r rule) check(value interface{}) string {
	err := validate.Var(value, r.tags)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := r.messages[verrs[0].Tag()]; ok {
			return msg
		}
	}
	if msg, ok := r.messages["*"]; ok {
		return msg
	}
	return err.Error()
}

type collector struct {
	reasons []string
}

func (c *collector) add(msg string) {
	if msg != "" {
		c.reasons = append(c.reasons, msg)
	}
}

func (c *collector) err() error {
	if len(c.reasons) == 0 {
		return nil
	}
	return &Error{Reasons: c.reasons}
}

type createRequest struct {
	Title       model.Optional[string] `json:"title"`
	Description model.Optional[string] `json:"description"`
}

type updateRequest struct {
	Title       model.Optional[string] `json:"title"`
	Description model.Optional[string] `json:"description"`
	Status      model.Optional[string] `json:"status"`
}

// decode treats an empty body as an empty object.
func decode(body []byte, dst interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if msg, ok := typeMessages[typeErr.Field]; ok {
				return &Error{Reasons: []string{msg}}
			}
		}
		return &Error{Reasons: []string{fmt.Sprintf("invalid json: %v", err)}}
	}
	return nil
}

var typeMessages = map[string]string{
	"title":       "Title must be a string",
	"description": "Description must be a string",
	"status":      statusMessage,
}

// CreateTask validates a create payload. A null description is treated as omitted.
func CreateTask(body []byte) (model.NewTask, error) {
	var req createRequest
	if err := decode(body, &req); err != nil {
		return model.NewTask{}, err
	}

	var c collector
	c.add(createTitle.check(req.Title.Value))
	if req.Description.HasValue() {
		c.add(description.check(req.Description.Value))
	}
	if err := c.err(); err != nil {
		return model.NewTask{}, err
	}

	return model.NewTask{
		Title:       req.Title.Value,
		Description: req.Description.Ptr(),
	}, nil
}

// UpdateTask validates a partial update. Only description may be explicitly null.
func UpdateTask(body []byte) (model.TaskPatch, error) {
	var req updateRequest
	if err := decode(body, &req); err != nil {
		return model.TaskPatch{}, err
	}

	var (
		c     collector
		patch model.TaskPatch
	)

	if req.Title.Set {
		if req.Title.Null {
			c.add("Title must be a string")
		} else {
			c.add(updateTitle.check(req.Title.Value))
			patch.Title = req.Title.Ptr()
		}
	}

	if req.Description.Set {
		if !req.Description.Null {
			c.add(description.check(req.Description.Value))
		}
		patch.Description = req.Description
	}

	if req.Status.Set {
		if req.Status.Null {
			c.add(statusMessage)
		} else if s, err := Status(req.Status.Value); err != nil {
			c.add(statusMessage)
		} else {
			patch.Status = &s
		}
	}

	if err := c.err(); err != nil {
		return model.TaskPatch{}, err
	}
	return patch, nil
}

// Status validates a required status value.
func Status(raw string) (model.Status, error) {
	if msg := status.check(raw); msg != "" {
		return "", &Error{Reasons: []string{msg}}
	}
	s, _ := model.ParseStatus(raw)
	return s, nil
}

// ListOptions parses status/limit/offset query parameters. Empty values count as absent.
func ListOptions(q url.Values) (model.ListOptions, error) {
	opts := model.ListOptions{Limit: model.DefaultLimit}
	var c collector

	if raw := q.Get("status"); raw != "" {
		if s, err := Status(raw); err != nil {
			c.add(statusMessage)
		} else {
			opts.Filter.Status = &s
		}
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			c.add(limit.messages["*"])
		} else if msg := limit.check(n); msg != "" {
			c.add(msg)
		} else {
			opts.Limit = n
		}
	}

	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			c.add(offset.messages["*"])
		} else if msg := offset.check(n); msg != "" {
			c.add(msg)
		} else {
			opts.Offset = n
		}
	}

	if err := c.err(); err != nil {
		return model.ListOptions{}, err
	}
	return opts, nil
}
