package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack/internal/model"
)

func TestJobChatMessageRepository_CreateAndLoadInOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobChatMessageRepository(db)
	ctx := context.Background()

	creator := seedUser(t, db, "creator", model.UserTypeContractor)
	homeowner := seedUser(t, db, "homeowner", model.UserTypeHomeowner)
	job := seedJob(t, db, model.Job{
		Description:     "Deck build",
		Status:          model.JobStatusPlanning,
		CreatedByUserID: creator.ID,
	}, homeowner.ID)

	for i := 1; i <= 3; i++ {
		message, err := repo.Create(ctx, CreateJobChatMessagePayload{
			JobID:           job.ID,
			Content:         fmt.Sprintf("message %d", i),
			CreatedByUserID: creator.ID,
		})
		require.NoError(t, err)
		assert.NotZero(t, message.ID)
	}

	messages, err := repo.LoadAllByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "message 1", messages[0].Content)
	assert.Equal(t, "message 3", messages[2].Content)

	none, err := repo.LoadAllByJobID(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}
