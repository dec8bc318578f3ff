package services

import (
	"context"
	"testing"
	"time"

	"couple-space-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moodOwners(moods []*models.Mood) []string {
	var ids []string
	for _, m := range moods {
		ids = append(ids, m.UserID)
	}
	return ids
}

func photoOwners(photos []*models.Photo) []string {
	var ids []string
	for _, p := range photos {
		ids = append(ids, p.UploadedBy)
	}
	return ids
}

func answerOwners(answers []*models.Answer) []string {
	var ids []string
	for _, a := range answers {
		ids = append(ids, a.UserID)
	}
	return ids
}

func TestCoupleScopeWidensAfterLinking(t *testing.T) {
	ctx := context.Background()
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	sam := newUser("u-sam", "sam", models.RoleGirlfriend)
	users, store := newUserFixture(alex, sam)
	pairs := NewPairService(store, &memPairs{users: store}, time.UTC)

	moods := NewMoodService(&memMoods{})
	photos := NewPhotoService(newMemPhotos(), nil)
	questions, _, _ := newQuestionFixture(nil)

	alexToken, err := users.GenerateJWT(alex)
	require.NoError(t, err)
	samToken, err := users.GenerateJWT(sam)
	require.NoError(t, err)

	asAlex, err := users.Authenticate(ctx, alexToken)
	require.NoError(t, err)
	asSam, err := users.Authenticate(ctx, samToken)
	require.NoError(t, err)

	question, err := questions.DailyQuestion(ctx, mustDate("2024-03-03"))
	require.NoError(t, err)

	for _, p := range []models.Principal{asAlex, asSam} {
		_, err := moods.Create(ctx, p, CreateMoodRequest{Mood: "happy"})
		require.NoError(t, err)
		_, err = photos.Upload(ctx, p, UploadRequest{ImageBase64: pngPixel})
		require.NoError(t, err)
		_, err = questions.SubmitAnswer(ctx, p, SubmitAnswerRequest{QuestionID: question.ID, AnswerText: "yes"})
		require.NoError(t, err)
	}

	// unlinked: only own content
	moodList, err := moods.List(ctx, asAlex)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-alex"}, moodOwners(moodList))

	photoList, err := photos.List(ctx, asAlex)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-alex"}, photoOwners(photoList))

	answers, err := questions.Answers(ctx, asAlex, question.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-alex"}, answerOwners(answers))

	_, err = pairs.LinkPartner(ctx, asAlex, "sam")
	require.NoError(t, err)

	// the same token now resolves to a linked principal
	asAlex, err = users.Authenticate(ctx, alexToken)
	require.NoError(t, err)
	require.Equal(t, "u-sam", asAlex.PartnerID)

	moodList, err = moods.List(ctx, asAlex)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u-alex", "u-sam"}, moodOwners(moodList))

	photoList, err = photos.List(ctx, asAlex)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u-alex", "u-sam"}, photoOwners(photoList))

	answers, err = questions.Answers(ctx, asAlex, question.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u-alex", "u-sam"}, answerOwners(answers))
}
