package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInspectionStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		name     string
		from     InspectionStatus
		to       InspectionStatus
		expected bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending-bulk to approved", StatusPendingBulk, StatusApproved, true},
		{"pending-bulk to rejected", StatusPendingBulk, StatusRejected, true},
		{"approved is terminal", StatusApproved, StatusRejected, false},
		{"rejected is terminal", StatusRejected, StatusApproved, false},
		{"auto-approved is terminal", StatusAutoApproved, StatusApproved, false},
		{"pending to pending is not a decision", StatusPending, StatusPending, false},
		{"pending to auto-approved is not a decision", StatusPending, StatusAutoApproved, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestInspectionStatus_IsValid(t *testing.T) {
	for _, s := range []InspectionStatus{StatusPending, StatusApproved, StatusRejected, StatusAutoApproved, StatusPendingBulk} {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}
	assert.False(t, InspectionStatus("draft").IsValid())
	assert.False(t, InspectionStatus("").IsValid())
}

func TestInspection_HasMedia(t *testing.T) {
	noMedia := Inspection{Steps: []FilledStep{{StepID: "s1"}, {StepID: "s2"}}}
	assert.False(t, noMedia.HasMedia())

	withMedia := Inspection{Steps: []FilledStep{
		{StepID: "s1"},
		{StepID: "s2", MediaURLs: []string{"https://cdn.example.com/photo.jpg"}},
	}}
	assert.True(t, withMedia.HasMedia())

	empty := Inspection{}
	assert.False(t, empty.HasMedia())
}

func TestInspection_ResolveApproverOutcome(t *testing.T) {
	now := time.Now()

	approver := func(status ApproverStatus) InspectionApprover {
		return InspectionApprover{UserID: "u-" + string(status), Status: status, ActionDate: &now}
	}

	testCases := []struct {
		name           string
		approvers      []InspectionApprover
		expectedStatus InspectionStatus
		expectResolved bool
	}{
		{"no approvers", nil, "", false},
		{"single pending", []InspectionApprover{approver(ApproverPending)}, "", false},
		{"single approved", []InspectionApprover{approver(ApproverApproved)}, StatusApproved, true},
		{"single rejected", []InspectionApprover{approver(ApproverRejected)}, StatusRejected, true},
		{"one approved one pending", []InspectionApprover{approver(ApproverApproved), approver(ApproverPending)}, "", false},
		{"all approved", []InspectionApprover{approver(ApproverApproved), approver(ApproverApproved)}, StatusApproved, true},
		{"rejection wins over pending", []InspectionApprover{approver(ApproverPending), approver(ApproverRejected)}, StatusRejected, true},
		{"rejection wins over approvals", []InspectionApprover{approver(ApproverApproved), approver(ApproverRejected), approver(ApproverApproved)}, StatusRejected, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			insp := Inspection{Approvers: tc.approvers}
			status, resolved := insp.ResolveApproverOutcome()
			assert.Equal(t, tc.expectResolved, resolved)
			assert.Equal(t, tc.expectedStatus, status)
		})
	}
}
