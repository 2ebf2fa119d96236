package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/routine"
)

func TestClientLoginAndSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "30111222", "Ana")

	_, _, _, err := env.clients.Login(ctx, "   ")
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, _, _, err = env.clients.Login(ctx, "999")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	token, session, member, err := env.clients.Login(ctx, " 30111222 ")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, m.ID, session.MemberID)
	assert.Equal(t, m.ID, member.ID)

	parsed, err := env.clients.Session(token)
	require.NoError(t, err)
	assert.Equal(t, m.ID, parsed.MemberID)

	_, err = env.clients.Session("garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.clients.Session("")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClientSessionRejectsOperatorTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, "admin", "Admin", "supersecret")
	require.NoError(t, err)
	token, _, err := env.auth.Login(ctx, "admin", "supersecret")
	require.NoError(t, err)

	_, err = env.clients.Session(token)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestClientAuthorize(t *testing.T) {
	env := newTestEnv(t)
	own := primitive.NewObjectID()

	assert.ErrorIs(t, env.clients.Authorize(nil, own), ErrUnauthenticated)
	assert.ErrorIs(t, env.clients.Authorize(&ClientSession{MemberID: own}, primitive.NewObjectID()), ErrAccessDenied)
	assert.NoError(t, env.clients.Authorize(&ClientSession{MemberID: own}, own))
}

func TestClientRoutinesResolveNamesAndRenderComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.member(t, "100", "Ana")
	squat := env.exerciseID(t, "Sentadilla")

	v, err := env.routines.CreateFromKind(ctx, m.ID, "hipertrofia")
	require.NoError(t, err)
	_, err = env.routines.SaveEdit(ctx, v.ID, routine.Submission{
		Comment: strPtr("**Bien** <script>alert(1)</script>"),
		Rows: []routine.RawRow{
			{Category: "Movilidad", WarmUp: true},
			{Category: "Piernas", ExerciseID: squat.Hex(), Series: "5"},
		},
	})
	require.NoError(t, err)

	session := &ClientSession{MemberID: m.ID}
	viewed, err := env.clients.Routines(ctx, session, m.ID)
	require.NoError(t, err)
	require.Len(t, viewed, 2)

	latest := viewed[0]
	assert.Equal(t, "Hipertrofia", latest.KindLabel)
	require.Len(t, latest.WarmUp, 1)
	require.Len(t, latest.Main, 1)
	assert.Equal(t, "Sentadilla", latest.Main[0].ExerciseName)
	assert.Contains(t, latest.CommentHTML, "<strong>Bien</strong>")
	assert.NotContains(t, latest.CommentHTML, "<script>")

	_, err = env.clients.Routines(ctx, session, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrAccessDenied)
}
