package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricanalyzer/models"
	"cricanalyzer/utils"
)

const sampleFixtures = "../../fixtures/seed.yaml"

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures(sampleFixtures)
	require.NoError(t, err)

	require.Len(t, f.Teams, 2)
	assert.Equal(t, "Rohit Sharma", f.Teams[0].Captain)
	require.Len(t, f.Matches, 1)
	assert.Equal(t, time.Date(2024, 11, 22, 2, 20, 0, 0, time.UTC), f.Matches[0].MatchDate.UTC())
	require.Len(t, f.News, 1)
	assert.Equal(t, []string{"1st Test: Australia v India"}, f.News[0].Matches)
	require.NotNil(t, f.News[0].PublishedAt)
}

func TestLoadFixturesMissingFile(t *testing.T) {
	_, err := LoadFixtures("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestNamesResolve(t *testing.T) {
	n := names{"India": "id-1"}
	ids, err := n.ids("team", []string{"India"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, []string(ids))

	_, err = n.id("team", "Nepal")
	assert.EqualError(t, err, `unknown team "Nepal"`)

	opt, err := n.optional("team", "")
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestApplyIsRepeatable(t *testing.T) {
	db := utils.CreateTempSchema(t)
	f, err := LoadFixtures(sampleFixtures)
	require.NoError(t, err)

	created, err := Apply(context.Background(), db, f)
	require.NoError(t, err)
	assert.Equal(t, 3, created["players"])
	assert.Equal(t, 1, created["news"])

	var india models.Team
	require.NoError(t, db.Where("name = ?", "India").First(&india).Error)
	require.NotNil(t, india.CaptainID)

	var news models.News
	require.NoError(t, db.Where("slug = ?", "bumrah-leads-india-to-perth-win").First(&news).Error)
	assert.Len(t, news.TeamIDs, 2)
	assert.Len(t, news.TagIDs, 2)
	assert.Len(t, news.MatchIDs, 1)

	again, err := Apply(context.Background(), db, f)
	require.NoError(t, err)
	assert.Empty(t, again)
}
