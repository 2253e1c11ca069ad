package matcher

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riggerhire/rigmatch/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCandidate checks the fields scoring depends on
func ValidateCandidate(c *models.CandidateProfile) error {
	if c == nil {
		return &InvalidInputError{Field: "candidate", Reason: "is missing"}
	}
	if y := c.Experience.Years; y != nil {
		if err := checkFinite("candidate.experience.years", *y); err != nil {
			return err
		}
	}
	if err := checkLocation("candidate", c.Location); err != nil {
		return err
	}
	if err := checkFinite("candidate.rating", c.Rating); err != nil {
		return err
	}
	return structError("candidate", validate.Struct(c))
}

// ValidateJob checks the fields scoring depends on
func ValidateJob(j *models.JobRequirement) error {
	if j == nil {
		return &InvalidInputError{Field: "job", Reason: "is missing"}
	}
	if err := checkLocation("job", j.Location); err != nil {
		return err
	}
	return structError("job", validate.Struct(j))
}

// NaN fails every comparison, so range tags alone would report it as out of range
func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidInputError{Field: field, Reason: "must be a finite number"}
	}
	return nil
}

func checkLocation(prefix string, loc models.Location) error {
	if err := checkFinite(prefix+".location.latitude", loc.Latitude); err != nil {
		return err
	}
	return checkFinite(prefix+".location.longitude", loc.Longitude)
}

// structError converts the first validator failure into an InvalidInputError
func structError(prefix string, err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InvalidInputError{Field: prefix, Reason: err.Error()}
	}

	fe := verrs[0]
	return &InvalidInputError{
		Field:  prefix + "." + fieldPath(fe.Namespace()),
		Reason: describeTag(fe.Tag(), fe.Param()),
	}
}

// fieldPath drops the struct name from a validator namespace, e.g. "CandidateProfile.Location.Latitude"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + param
	case "lte":
		return "must be <= " + param
	default:
		return "failed " + tag
	}
}
