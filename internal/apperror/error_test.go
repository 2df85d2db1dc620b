package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCode(t *testing.T) {
	assert.Equal(t, Code(""), GetCode(nil))
	assert.Equal(t, CodeNotFound, GetCode(New(CodeNotFound, "Employé non trouvé")))
	assert.Equal(t, CodeCodeExpired, GetCode(fmt.Errorf("vérification: %w", New(CodeCodeExpired, "Code expiré"))))
	assert.Equal(t, CodeInternal, GetCode(errors.New("boom")))
}
