package util_test

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/util"
)

func TestHashPassword_ProducesBcryptHash(t *testing.T) {
	RegisterTestingT(t)

	hash, err := util.HashPassword("password123")

	Expect(err).To(BeNil())
	Expect(hash).NotTo(Equal("password123"))
	Expect(strings.HasPrefix(hash, "$2")).To(BeTrue())
}

func TestVerifyPassword(t *testing.T) {
	RegisterTestingT(t)

	hash, _ := util.HashPassword("password123")

	Expect(util.VerifyPassword("password123", hash)).To(BeTrue())
	Expect(util.VerifyPassword("otra", hash)).To(BeFalse())
	Expect(util.VerifyPassword("password123", "not-a-hash")).To(BeFalse())
}
