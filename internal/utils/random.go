package utils

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

var commonFirstNames = []string{
	"Camille", "Louis", "Chloe", "Hugo", "Manon", "Arthur", "Lea", "Jules", "Ines", "Gabriel",
	"Sarah", "Nathan", "Julie", "Thomas", "Clara", "Antoine", "Laura", "Maxime", "Pauline", "Paul",
}

var commonLastNames = []string{
	"Martin", "Bernard", "Thomas", "Petit", "Robert", "Richard", "Durand", "Dubois", "Moreau", "Laurent",
	"Simon", "Michel", "Lefebvre", "Leroy", "Roux", "David", "Bertrand", "Morel", "Fournier", "Girard",
}

var commonPositions = []string{
	"Développeur Junior", "Développeur Senior", "Chef de projet", "Analyste", "Designer UX",
	"Chargé de recrutement", "Assistant commercial", "Comptable", "Responsable qualité",
}

func GenerateRandomFrenchName() (string, string) {
	return commonFirstNames[rand.Intn(len(commonFirstNames))], commonLastNames[rand.Intn(len(commonLastNames))]
}

var digits = "0123456789"

// GenerateRandomEmployee construit un employé fictif rattaché au manager, l'email reste unique grâce au suffixe numérique.
func GenerateRandomEmployee(managerID int64, emailDomainName string) *domain.Employee {
	firstName, lastName := GenerateRandomFrenchName()

	suffix := ""
	for i := 0; i < 3; i++ {
		suffix += string(digits[rand.Intn(len(digits))])
	}

	// embauche entre 1 et 10 ans en arrière
	hireDate := time.Now().AddDate(-(rand.Intn(10) + 1), -rand.Intn(12), -rand.Intn(28)).Truncate(24 * time.Hour)

	return &domain.Employee{
		Name:      firstName + " " + lastName,
		Email:     strings.ToLower(firstName+"."+lastName) + suffix + "@" + emailDomainName,
		Position:  commonPositions[rand.Intn(len(commonPositions))],
		HireDate:  hireDate,
		ManagerID: managerID,
	}
}

// GenerateVerificationCode tire un code à 6 chiffres uniformément dans [100000, 999999].
func GenerateVerificationCode() (string, error) {
	n, err := crand.Int(crand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
