package tools

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/worldofchami/shopassist/pkg/apperr"
)

// Optional parameters are pointers so an explicit zero can be told apart from
// an absent value.

type SearchParams struct {
	Query      string  `mapstructure:"query" validate:"required"`
	Category   *string `mapstructure:"category"`
	MaxResults *int    `mapstructure:"max_results"`
}

type ProductDetailsParams struct {
	ProductID string `mapstructure:"product_id" validate:"required"`
}

type RecommendationParams struct {
	CustomerPreference string  `mapstructure:"customer_preference" validate:"required"`
	BudgetRange        *string `mapstructure:"budget_range"`
}

type OrderStatusParams struct {
	OrderID       string `mapstructure:"order_id" validate:"required"`
	CustomerEmail string `mapstructure:"customer_email"`
}

type OrderHistoryParams struct {
	CustomerEmail string `mapstructure:"customer_email" validate:"required"`
	Limit         *int   `mapstructure:"limit"`
}

type CancelOrderParams struct {
	OrderID       string `mapstructure:"order_id" validate:"required"`
	CustomerEmail string `mapstructure:"customer_email" validate:"required"`
	Reason        string `mapstructure:"reason"`
}

type CreateOrderParams struct {
	CustomerEmail   string            `mapstructure:"customer_email" validate:"required,email"`
	Items           []OrderItemParams `mapstructure:"items" validate:"required,min=1,dive"`
	ShippingAddress string            `mapstructure:"shipping_address" validate:"required"`
}

type OrderItemParams struct {
	Name     string  `mapstructure:"name" validate:"required"`
	Quantity *int    `mapstructure:"quantity"`
	Price    float64 `mapstructure:"price"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeParams copies a flat argument map into out and validates it. Nil and
// empty-string values count as absent. Scalars given as strings are
// converted, so "5" is accepted for an integer parameter.
func decodeParams(args map[string]any, out any) error {
	cleaned := make(map[string]any, len(args))
	for k, v := range args {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		cleaned[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return apperr.Internal(err, "building argument decoder")
	}
	if err := dec.Decode(cleaned); err != nil {
		return apperr.InvalidArgument("arguments", "Invalid arguments: %v", err)
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			switch fe.Tag() {
			case "required", "min":
				return apperr.InvalidArgument(fe.Field(), "Please provide %s", fe.Field())
			default:
				return apperr.InvalidArgument(fe.Field(), "Invalid %s: %v", fe.Field(), fe.Value())
			}
		}
		return apperr.InvalidArgument("arguments", "Invalid arguments: %v", err)
	}
	return nil
}
