package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/liftedinit/gopay/internal/payment"
)

type PaymentConfig struct {
	ProcessingDelay    time.Duration
	CompensationPolicy payment.CompensationPolicy
}

func (c PaymentConfig) Validate() error {
	if c.ProcessingDelay < 0 {
		return fmt.Errorf("processing delay cannot be negative")
	}
	if _, err := payment.ParseCompensationPolicy(string(c.CompensationPolicy)); err != nil {
		return err
	}
	return nil
}

func LoadPaymentConfigFromCLI() PaymentConfig {
	return PaymentConfig{
		ProcessingDelay:    viper.GetDuration("processing-delay"),
		CompensationPolicy: payment.CompensationPolicy(viper.GetString("compensation-policy")),
	}
}
