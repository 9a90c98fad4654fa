package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
)

// DefaultUsername is the demo teacher account installed by Seed.
const DefaultUsername = "sarah.johnson"

// Seed installs the demo teacher and her starter templates unless the
// account already exists. Returns the demo user either way.
func Seed(ctx context.Context, st Store) (comm.User, error) {
	user, err := st.GetUserByUsername(ctx, DefaultUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return comm.User{}, fmt.Errorf("failed to look up default user: %w", err)
	}

	user, err = st.CreateUser(ctx, NewUser{Username: DefaultUsername, Password: "password"})
	if err != nil {
		return comm.User{}, fmt.Errorf("failed to create default user: %w", err)
	}

	for _, tpl := range starterTemplates(user.ID) {
		if _, err := st.CreateTemplate(ctx, tpl); err != nil {
			return comm.User{}, fmt.Errorf("failed to create starter template %q: %w", tpl.Name, err)
		}
	}
	return user, nil
}

func starterTemplates(userID string) []NewTemplate {
	return []NewTemplate{
		{
			Name:     "Assignment Help",
			Type:     comm.InquiryAssignmentHelp,
			Language: "en",
			UserID:   userID,
			Content: "Dear Parent,\n\nThank you for reaching out about the assignment. I understand your child might be finding it challenging.\n\n" +
				"[Assignment specific guidance will be provided here]\n\nPlease don't hesitate to reach out if you have any other questions.\n\nBest regards,\n[Teacher Name]",
		},
		{
			Name:     "Grade Explanation",
			Type:     comm.InquiryGradeInquiry,
			Language: "en",
			UserID:   userID,
			Content: "Dear Parent,\n\nThank you for your inquiry about your child's grade.\n\n" +
				"[Grade breakdown and explanation will be provided here]\n\nI'm happy to schedule a meeting to discuss this further if needed.\n\nBest regards,\n[Teacher Name]",
		},
		{
			Name:     "Schedule Info",
			Type:     comm.InquiryScheduleQuestion,
			Language: "en",
			UserID:   userID,
			Content: "Dear Parent,\n\nThank you for your question about the schedule.\n\n" +
				"[Schedule information will be provided here]\n\nPlease let me know if you need any clarification.\n\nBest regards,\n[Teacher Name]",
		},
		{
			Name:     "Parent Communication",
			Type:     comm.InquiryParentCommunication,
			Language: "en",
			UserID:   userID,
			Content: "Dear Parent,\n\nThank you for reaching out.\n\n" +
				"[Communication content will be provided here]\n\nI look forward to working together to support your child's education.\n\nBest regards,\n[Teacher Name]",
		},
	}
}
