package config

import (
	"fmt"
	"os"
	"strconv"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02T15:04:05Z07:00"

// MAX_BOOKING_AHEAD_MONTHS bounds how far out a slot may be reserved.
const MAX_BOOKING_AHEAD_MONTHS = 6

// DefaultCommissionRate is the process-wide fallback used when no active
// commission rule matches a booking's provider or category.
func DefaultCommissionRate() float64 {
	v := os.Getenv("COMMISSION_DEFAULT_RATE")
	rate, err := strconv.ParseFloat(v, 64)
	if err != nil || rate <= 0 || rate >= 1 {
		return 0.10
	}
	return rate
}

func DefaultCurrency() string {
	currency := os.Getenv("DEFAULT_CURRENCY")
	if currency == "" {
		return "usd"
	}
	return currency
}
