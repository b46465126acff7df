package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusKeyPrefersSign(t *testing.T) {
	lic := &License{Sign: "ABCD", Others: []string{"fallback"}}
	require.Equal(t, "ABCD", lic.StatusKey())
}

func TestStatusKeyFallsBackToOthers(t *testing.T) {
	lic := &License{Others: []string{"fallback", "second"}}
	require.Equal(t, "fallback", lic.StatusKey())
}

func TestStatusKeyEmptyWhenNeitherPresent(t *testing.T) {
	lic := &License{}
	require.Equal(t, "", lic.StatusKey())
}

func TestLicenseStringIncludesStatusError(t *testing.T) {
	lic := &License{
		Feature: "widget",
		Vendor:  "acme",
		Status:  &LicenseStatus{Err: errors.New("connection refused")},
	}
	s := lic.String()
	require.Contains(t, s, "widget")
	require.Contains(t, s, "connection refused")
}

func TestLicenseStringIncludesUsage(t *testing.T) {
	lic := &License{
		Feature: "widget",
		Status:  &LicenseStatus{Used: 2, Total: 10, Timestamp: 1234},
	}
	s := lic.String()
	require.Contains(t, s, "used")
	require.Contains(t, s, "2")
	require.Contains(t, s, "10")
}

func TestUsageRecordGroupReservation(t *testing.T) {
	u := UsageRecord{GroupReservation: "engineering"}
	require.True(t, u.IsGroup())
	require.Contains(t, u.String(), "engineering")
}

func TestUsageRecordIndividualCheckout(t *testing.T) {
	u := UsageRecord{User: "alice", Host: "workstation1", TTY: "pts/0", Version: "1.0"}
	require.False(t, u.IsGroup())
	require.Contains(t, u.String(), "alice@workstation1")
}
