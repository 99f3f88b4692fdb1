package service

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/go-playground/validator/v10"
)

// tronAddressRe адрес TRON в base58: префикс T и 33 символа алфавита base58.
var tronAddressRe = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)

var (
	addressValidator     *validator.Validate
	addressValidatorOnce sync.Once
)

// ValidateTronAddress валидатор для тэга tron_addr.
func ValidateTronAddress(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return tronAddressRe.MatchString(str)
}

func getAddressValidator() *validator.Validate {
	addressValidatorOnce.Do(func() {
		v := validator.New()
		// регистрация с константным тэгом и корректной функцией не возвращает ошибок.
		_ = v.RegisterValidation("tron_addr", ValidateTronAddress)
		addressValidator = v
	})
	return addressValidator
}

// networkAddressTags правила проверки адреса для каждой сети вывода.
var networkAddressTags = map[domain.NetworkType]string{
	domain.NetworkTRC20: "required,tron_addr",
	domain.NetworkERC20: "required,eth_addr",
	domain.NetworkBSC:   "required,eth_addr",
}

// ParseNetwork приводит название сети к поддерживаемому значению без учета регистра.
func ParseNetwork(network string) (domain.NetworkType, error) {
	n := domain.NetworkType(strings.ToUpper(strings.TrimSpace(network)))
	if _, ok := networkAddressTags[n]; !ok {
		return "", domain.NewValidationError("network", fmt.Sprintf("unsupported network %q", network))
	}
	return n, nil
}

// ValidateAddress проверяет формат адреса для сети. Возвращает domain.ErrInvalidAddress.
func ValidateAddress(network domain.NetworkType, address string) error {
	tag, ok := networkAddressTags[network]
	if !ok {
		return domain.NewValidationError("network", fmt.Sprintf("unsupported network %q", network))
	}
	if err := getAddressValidator().Var(address, tag); err != nil {
		return fmt.Errorf("%s address %q: %w", network, address, domain.ErrInvalidAddress)
	}
	return nil
}
