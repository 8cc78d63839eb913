package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	for _, name := range []string{"abc", "Player_1", "a_b_c_d_e_f_g_h_i_j_"} {
		assert.True(t, ValidUsername(name), name)
	}
	for _, name := range []string{"", "ab", "with space", "dash-name", "ผู้เล่น", "abcdefghijklmnopqrstu"} {
		assert.False(t, ValidUsername(name), name)
	}
}

func TestMembershipActive(t *testing.T) {
	now := time.Now()

	assert.False(t, Membership{Tier: MembershipNone}.Active(now))
	assert.False(t, Membership{}.Active(now))
	assert.False(t, Membership{Tier: "vip", ExpiresAt: now.Add(-time.Minute)}.Active(now))
	assert.True(t, Membership{Tier: "vip", ExpiresAt: now.Add(time.Hour)}.Active(now))
}
