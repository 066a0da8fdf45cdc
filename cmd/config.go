package main

import (
	"chatbot/domain"
	"chatbot/errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nyaruka/phonenumbers"
)

type Config struct {
	Prefix              string        `env:"BOT_PREFIX,default=!" validate:"required"`
	PhoneNumber         string        `env:"PHONE_NUMBER,required=true" validate:"required"`
	CountryCode         string        `env:"COUNTRY_CODE,default=BR" validate:"required,len=2"`
	AuthDir             string        `env:"AUTH_DIR,default=wwebjs_auth" validate:"required"`
	SourceURL           string        `env:"SOURCE_URL" validate:"omitempty,url"`
	StoreBackend        string        `env:"STORE_BACKEND,default=badger" validate:"oneof=badger redis mongo"`
	BadgerFilepath      string        `env:"BADGER_FILEPATH,default=data/badger" validate:"required_if=StoreBackend badger"`
	RedisURL            string        `env:"REDIS_URL" validate:"required_if=StoreBackend redis"`
	MongoUsername       string        `env:"MONGODB_USERNAME" validate:"required_if=StoreBackend mongo"`
	MongoPassword       string        `env:"MONGODB_PASSWORD" validate:"required_if=StoreBackend mongo"`
	MongoEndpoint       string        `env:"MONGODB_ENDPOINT" validate:"required_if=StoreBackend mongo"`
	MongoDatabase       string        `env:"MONGODB_DATABASE,default=whatsapp-api"`
	GatewayURL          string        `env:"GATEWAY_URL,required=true" validate:"required,url"`
	GatewayToken        string        `env:"GATEWAY_TOKEN"`
	EventBufferSize     int           `env:"EVENT_BUFFER_SIZE,default=256" validate:"gt=0"`
	ShutdownGrace       time.Duration `env:"SHUTDOWN_GRACE,default=5s" validate:"gte=0"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,default=1s"`
	LogLevel            string        `env:"LOG_LEVEL,default=INFO"`
	Port                int           `env:"PORT,default=8080" validate:"gt=0,lte=65535"`
	SkipSessionDownload bool          `env:"SKIP_SESSION_DOWNLOAD,default=false"`
}

var validate = validator.New()

func (c Config) Validate() error {
	return validate.Struct(c)
}

// OwnerAddress turns the configured phone number into the owner's user address.
// The identifier is the country calling code followed by the national number,
// without any formatting.
func OwnerAddress(phoneNumber, countryCode string) (domain.Address, error) {
	number, err := phonenumbers.Parse(phoneNumber, countryCode)
	if err != nil {
		return domain.Address{}, fmt.Errorf("%w: %s: %v", errors.ErrInvalidOwner, phoneNumber, err)
	}
	if !phonenumbers.IsValidNumber(number) {
		return domain.Address{}, fmt.Errorf("%w: %s is not a valid number in %s", errors.ErrInvalidOwner, phoneNumber, countryCode)
	}
	id := strconv.Itoa(int(number.GetCountryCode())) + phonenumbers.GetNationalSignificantNumber(number)
	return domain.NewUserAddress(id), nil
}

// LoadConfig reads the optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}
