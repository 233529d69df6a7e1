package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.domain.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateNickname(t *testing.T) {
	assert.True(t, ValidateNickname("jo"))
	assert.True(t, ValidateNickname("twenty-char-nick-ok!"))
	assert.False(t, ValidateNickname("j"))
	assert.False(t, ValidateNickname("this nickname is far too long"))
	assert.False(t, ValidateNickname(""))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng!pass"))
	assert.False(t, ValidatePassword("Sh0rt!a"))
	assert.False(t, ValidatePassword("alllowercase1!"))
	assert.False(t, ValidatePassword("ALLUPPERCASE1!"))
	assert.False(t, ValidatePassword("NoDigitsHere!"))
	assert.False(t, ValidatePassword("NoSpecials123"))
}
