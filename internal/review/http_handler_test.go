package review

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/httpx"
	"bookworm/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	newReq := func(body any) *http.Request {
		r := testutil.NewRequest(http.MethodPost, "/books/b1/reviews", body)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), "u1", entity.RoleUser))
		r.SetPathValue("id", "b1")
		return r
	}

	t.Run("created", func(t *testing.T) {
		mockRepo.EXPECT().FindUserByID(gomock.Any(), "u1").Return(testutil.User("u1"), nil)
		mockRepo.EXPECT().FindBook(gomock.Any(), "b1").Return(testutil.Book("b1", "g1", 0, 0), nil)
		mockRepo.EXPECT().FindReviews(gomock.Any(), entity.ReviewFilter{UserID: "u1", BookID: "b1"}).Return([]entity.Review{}, nil)
		mockRepo.EXPECT().SaveReview(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.Submit(w, newReq(map[string]any{"rating": 5, "comment": "great"}))

		assert.Equal(t, http.StatusCreated, w.Code)
		var rv entity.Review
		testutil.DecodeEnvelope(t, w, &rv)
		assert.Equal(t, entity.ReviewPending, rv.Status)
		assert.Equal(t, 5, rv.Rating)
		assert.NotEmpty(t, rv.ID)
	})

	t.Run("duplicate", func(t *testing.T) {
		mockRepo.EXPECT().FindUserByID(gomock.Any(), "u1").Return(testutil.User("u1"), nil)
		mockRepo.EXPECT().FindBook(gomock.Any(), "b1").Return(testutil.Book("b1", "g1", 0, 0), nil)
		mockRepo.EXPECT().FindReviews(gomock.Any(), gomock.Any()).Return([]entity.Review{{ID: "r0"}}, nil)

		w := httptest.NewRecorder()
		handler.Submit(w, newReq(map[string]any{"rating": 3, "comment": "again"}))

		assert.Equal(t, http.StatusConflict, w.Code)
		env := testutil.DecodeEnvelope(t, w, nil)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		cases := []map[string]any{
			{"rating": 0, "comment": "x"},
			{"rating": 6, "comment": "x"},
			{"rating": 3, "comment": "  "},
		}
		for _, body := range cases {
			w := httptest.NewRecorder()
			handler.Submit(w, newReq(body))
			assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
		}
	})
}

func TestHTTPHandler_Moderate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	pending := entity.Review{ID: "r1", UserID: "u1", BookID: "b1", Rating: 2, Status: entity.ReviewPending}

	newReq := func(id string, body any) *http.Request {
		r := testutil.NewRequest(http.MethodPatch, "/admin/reviews/"+id, body)
		r.SetPathValue("id", id)
		return r
	}

	t.Run("approve", func(t *testing.T) {
		mockRepo.EXPECT().FindReview(gomock.Any(), "r1").Return(pending, nil)
		mockRepo.EXPECT().FindBook(gomock.Any(), "b1").Return(testutil.Book("b1", "g1", 0, 0), nil)
		mockRepo.EXPECT().SaveReview(gomock.Any(), gomock.Any()).Return(nil)
		mockRepo.EXPECT().FindReviews(gomock.Any(), entity.ReviewFilter{BookID: "b1", Status: entity.ReviewApproved}).
			Return([]entity.Review{{Rating: 4}, {Rating: 5}, {Rating: 3}, {Rating: 2}}, nil)
		mockRepo.EXPECT().SaveBook(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *entity.Book) error {
			assert.Equal(t, 4, b.TotalRatings)
			assert.InDelta(t, 3.5, b.AverageRating, 1e-9)
			return nil
		})

		w := httptest.NewRecorder()
		handler.Moderate(w, newReq("r1", map[string]string{"action": "approve"}))

		assert.Equal(t, http.StatusOK, w.Code)
		var rv entity.Review
		testutil.DecodeEnvelope(t, w, &rv)
		assert.Equal(t, entity.ReviewApproved, rv.Status)
	})

	t.Run("reject", func(t *testing.T) {
		mockRepo.EXPECT().FindReview(gomock.Any(), "r1").Return(pending, nil)
		mockRepo.EXPECT().DeleteReview(gomock.Any(), "r1").Return(nil)

		w := httptest.NewRecorder()
		handler.Moderate(w, newReq("r1", map[string]string{"action": "reject"}))

		assert.Equal(t, http.StatusOK, w.Code)
		var rv entity.Review
		testutil.DecodeEnvelope(t, w, &rv)
		assert.Equal(t, entity.ReviewRejected, rv.Status)
	})

	t.Run("unknown action", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Moderate(w, newReq("r1", map[string]string{"action": "publish"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing review", func(t *testing.T) {
		mockRepo.EXPECT().FindReview(gomock.Any(), "nope").Return(entity.Review{}, apperr.NotFound("review not found"))

		w := httptest.NewRecorder()
		handler.Moderate(w, newReq("nope", map[string]string{"action": "approve"}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_ListPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mockRepo.EXPECT().FindReviews(gomock.Any(), entity.ReviewFilter{Status: entity.ReviewPending}).
		Return([]entity.Review{{ID: "r2"}, {ID: "r1"}}, nil)

	w := httptest.NewRecorder()
	handler.ListPending(w, httptest.NewRequest(http.MethodGet, "/admin/reviews", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var reviews []entity.Review
	env := testutil.DecodeEnvelope(t, w, &reviews)
	assert.Len(t, reviews, 2)
	assert.EqualValues(t, 2, env.Meta["total"])
}
