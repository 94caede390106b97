package shipping

import (
	"fmt"
	"sort"
	"time"
)

// Method is one row of the static pricing/shipping table: a flat cost, a
// quoted lead time and optional free-text details shown at checkout.
type Method struct {
	Key                   string   `json:"key"`
	Name                  string   `json:"name"`
	DeliveryTime          string   `json:"deliveryTime"`
	Price                 float64  `json:"price"`
	Details               string   `json:"details,omitempty"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold,omitempty"`
	// Lead-time window in working days; MinDays==MaxDays==0 means same-day
	// pickup by appointment.
	MinDays int `json:"minDays"`
	MaxDays int `json:"maxDays"`
}

// UnknownMethodError reports a shipping-method key that is not in the table.
type UnknownMethodError struct {
	Key string
}

func (e UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown shipping method: %q", e.Key)
}

var table = map[string]Method{
	"pickup": {
		Key:          "pickup",
		Name:         "Customer Pick-up",
		DeliveryTime: "Pickup days: Tuesdays, Wednesdays, and Fridays",
		Price:        0,
		Details:      "No walk-in store. Location: Ago palace. Time: based on appointments.",
	},
	"south-east": {
		Key:          "south-east",
		Name:         "South East (Park) Excluding Abakaliki",
		DeliveryTime: "3-6 working days",
		Price:        4000,
		MinDays:      3,
		MaxDays:      6,
	},
	"south-west-park": {
		Key:          "south-west-park",
		Name:         "South West (Park)",
		DeliveryTime: "3-6 working days",
		Price:        4000,
		MinDays:      3,
		MaxDays:      6,
	},
	"south-south-park": {
		Key:          "south-south-park",
		Name:         "South South (Park)",
		DeliveryTime: "3-6 working days",
		Price:        4000,
		MinDays:      3,
		MaxDays:      6,
	},
	"north-doorstep": {
		Key:          "north-doorstep",
		Name:         "North Doorstep Delivery",
		DeliveryTime: "3-6 working days",
		Price:        6450,
		MinDays:      3,
		MaxDays:      6,
	},
	"lagos-mainland": {
		Key:          "lagos-mainland",
		Name:         "Lagos Mainland 3",
		DeliveryTime: "1-3 working days",
		Price:        2000,
		Details:      "Ago palace only",
		MinDays:      1,
		MaxDays:      3,
	},
	"lagos-flat": {
		Key:          "lagos-flat",
		Name:         "Lagos Flat Rate",
		DeliveryTime: "1-3 working days",
		Price:        3100,
		MinDays:      1,
		MaxDays:      3,
	},
	"abuja-ilorin": {
		Key:          "abuja-ilorin",
		Name:         "Abuja, Ilorin (Park)",
		DeliveryTime: "3-6 working days",
		Price:        4000,
		MinDays:      3,
		MaxDays:      6,
	},
	"southwest-doorstep": {
		Key:          "southwest-doorstep",
		Name:         "Southwest Doorstep Delivery",
		DeliveryTime: "3-6 working days",
		Price:        4650,
		MinDays:      3,
		MaxDays:      6,
	},
	"nsukka-special": {
		Key:          "nsukka-special",
		Name:         "Nsukka, Abakaliki, Sapele (Park)",
		DeliveryTime: "3-6 working days",
		Price:        4500,
		MinDays:      3,
		MaxDays:      6,
	},
	"abuja-doorstep": {
		Key:          "abuja-doorstep",
		Name:         "Abuja Doorstep Delivery",
		DeliveryTime: "3-6 working days",
		Price:        6200,
		MinDays:      3,
		MaxDays:      6,
	},
	"southeast-doorstep": {
		Key:          "southeast-doorstep",
		Name:         "South East Doorstep Delivery",
		DeliveryTime: "3-6 working days",
		Price:        5650,
		MinDays:      3,
		MaxDays:      6,
	},
	"southsouth-doorstep": {
		Key:          "southsouth-doorstep",
		Name:         "South South Doorstep Delivery",
		DeliveryTime: "3-6 working days",
		Price:        5650,
		MinDays:      3,
		MaxDays:      6,
	},
	"lagos-extreme": {
		Key:          "lagos-extreme",
		Name:         "Lagos Flat Rate For Extreme Locations",
		DeliveryTime: "1-3 working days",
		Price:        3300,
		Details:      "For extreme locations: Ikorodu, Berger, Ibeju Lekki, Epe, Badagry",
		MinDays:      1,
		MaxDays:      3,
	},
	"cross-rivers-akwa": {
		Key:          "cross-rivers-akwa",
		Name:         "Cross Rivers And Akwa Ibom Doorstep Delivery",
		DeliveryTime: "3-6 working days",
		Price:        6750,
		MinDays:      3,
		MaxDays:      6,
	},
}

// Lookup returns the table row for a method key.
func Lookup(key string) (Method, error) {
	method, ok := table[key]
	if !ok {
		return Method{}, UnknownMethodError{Key: key}
	}
	return method, nil
}

// Cost returns the shipping cost for a method applied to a cart subtotal,
// honouring the method's free-shipping threshold when one is set.
func Cost(key string, subtotal float64) (float64, error) {
	method, err := Lookup(key)
	if err != nil {
		return 0, err
	}
	if method.FreeShippingThreshold != nil && subtotal >= *method.FreeShippingThreshold {
		return 0, nil
	}
	return method.Price, nil
}

// EstimatedShipDate derives the date an order placed now is expected to
// leave, from the method's minimum lead time rather than a fixed constant.
func EstimatedShipDate(now time.Time, key string) (time.Time, error) {
	method, err := Lookup(key)
	if err != nil {
		return time.Time{}, err
	}
	days := method.MinDays
	if days < 1 {
		days = 1
	}
	return now.AddDate(0, 0, days), nil
}

// EstimatedDelivery derives the outer delivery estimate from the method's
// maximum lead time.
func EstimatedDelivery(now time.Time, key string) (time.Time, error) {
	method, err := Lookup(key)
	if err != nil {
		return time.Time{}, err
	}
	days := method.MaxDays
	if days < 1 {
		days = 2
	}
	return now.AddDate(0, 0, days), nil
}

// Methods returns every table row sorted by key, for the checkout page and
// the delivery-method seeding endpoint.
func Methods() []Method {
	out := make([]Method, 0, len(table))
	for _, method := range table {
		out = append(out, method)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
