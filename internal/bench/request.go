package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/buger/jsonparser"
	"github.com/go-playground/validator/v10"
	"github.com/grussorusso/archbench/internal/workload"
	"github.com/grussorusso/archbench/utils"
)

const (
	MaxIterations     = 10
	DefaultIterations = 1
)

// Fields are the members of an inbound request, still in raw JSON form.
type Fields map[string]json.RawMessage

// Request is a validated benchmark request.
type Request struct {
	Operation  workload.Operation `json:"operation"`
	Size       int                `json:"size"`
	Iterations int                `json:"iterations"`
	Seed       int64              `json:"seed"`
}

func (r Request) Params() workload.Params {
	return workload.Params{Size: r.Size, Iterations: r.Iterations, Seed: r.Seed}
}

// ValidationError reports a request rejected before running any workload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidEvent is returned by ParseEvent for events that are not JSON objects.
var ErrInvalidEvent = errors.New("invalid event")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseEvent extracts the request fields from a Lambda event. API Gateway
// proxy events carry them in the body, merged over the query string;
// direct invocations carry them at the top level.
func ParseEvent(raw []byte) (Fields, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Fields{}, nil
	}
	if utils.JsonHasKeys(raw, "httpMethod", "body") {
		return parseProxyEvent(raw)
	}
	fields, err := utils.JsonObjectFields(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return fields, nil
}

func parseProxyEvent(raw []byte) (Fields, error) {
	body, bodyType, _, err := jsonparser.Get(raw, "body")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	var req events.APIGatewayProxyRequest
	// the body may be an embedded object instead of the usual string
	stripped := jsonparser.Delete(append([]byte(nil), raw...), "body")
	if err := json.Unmarshal(stripped, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	fields := make(Fields, len(req.QueryStringParameters))
	for k, v := range req.QueryStringParameters {
		fields[k] = queryValue(v)
	}

	var bodyFields map[string]json.RawMessage
	switch bodyType {
	case jsonparser.Object:
		bodyFields, err = utils.JsonObjectFields(body)
	case jsonparser.String:
		var s string
		if s, err = jsonparser.ParseString(body); err == nil && strings.TrimSpace(s) != "" {
			bodyFields, err = utils.JsonObjectFields([]byte(s))
		}
	case jsonparser.Null:
	default:
		err = fmt.Errorf("unexpected body of type %s", bodyType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON in request body: %v", ErrInvalidEvent, err)
	}

	for k, v := range bodyFields {
		fields[k] = v
	}
	return fields, nil
}

// queryValue turns a query string parameter into raw JSON; base-10 integers
// become numbers, anything else stays a string.
func queryValue(v string) json.RawMessage {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return json.RawMessage(v)
	}
	b, _ := json.Marshal(v)
	return b
}

// intField returns the integer stored under name, or def when it is absent.
func (f Fields) intField(name string, def int64) (int64, bool) {
	raw, ok := f[name]
	if !ok {
		return def, true
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func operationList() string {
	quoted := make([]string, len(workload.Operations))
	for i, op := range workload.Operations {
		quoted[i] = "'" + string(op) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func operationTag() string {
	names := make([]string, len(workload.Operations))
	for i, op := range workload.Operations {
		names[i] = string(op)
	}
	return "oneof=" + strings.Join(names, " ")
}

func checkRange(name string, v int64, min, max int) error {
	if err := validate.Var(v, fmt.Sprintf("min=%d,max=%d", min, max)); err != nil {
		return invalid("%s must be an integer between %d and %d", name, min, max)
	}
	return nil
}

// Validate checks the request fields and fills in the defaults. seed is used
// when the request carries none.
func Validate(fields Fields, seed int64) (Request, error) {
	rawOp, ok := fields["operation"]
	if !ok {
		return Request{}, invalid("Missing required parameter: 'operation'")
	}

	// anything but a JSON string is echoed back as written
	name := string(rawOp)
	if _, dataType, _, err := jsonparser.Get(rawOp); err == nil && dataType == jsonparser.String {
		_ = json.Unmarshal(rawOp, &name)
	} else {
		name = strings.TrimSpace(name)
	}
	if err := validate.Var(name, "required,"+operationTag()); err != nil {
		return Request{}, invalid("Invalid operation '%s'. Valid operations: %s", name, operationList())
	}
	op := workload.Operation(name)
	param, _ := op.SizeParam()

	size, ok := fields.intField(param.Name, int64(param.Default))
	if !ok {
		return Request{}, invalid("%s must be an integer between %d and %d", param.Name, param.Min, param.Max)
	}
	if err := checkRange(param.Name, size, param.Min, param.Max); err != nil {
		return Request{}, err
	}

	iterations, ok := fields.intField("iterations", DefaultIterations)
	if !ok {
		return Request{}, invalid("iterations must be an integer between 1 and %d", MaxIterations)
	}
	if err := checkRange("iterations", iterations, 1, MaxIterations); err != nil {
		return Request{}, err
	}

	s, ok := fields.intField("seed", seed)
	if !ok {
		return Request{}, invalid("seed must be an integer")
	}

	return Request{Operation: op, Size: int(size), Iterations: int(iterations), Seed: s}, nil
}
