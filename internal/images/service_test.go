package images

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"userprefs-backend/internal/shared/storage/object"
)

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) PresignUpload(ctx context.Context, key, contentType string) (object.Grant, error) {
	args := m.Called(ctx, key, contentType)
	return args.Get(0).(object.Grant), args.Error(1)
}

func (m *mockIssuer) PresignDownload(ctx context.Context, key string) (object.Grant, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(object.Grant), args.Error(1)
}

func (m *mockIssuer) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newTestService(issuer object.Issuer) *Service {
	svc := NewService(issuer, nil)
	svc.NewToken = func() string { return "tok" }
	return svc
}

func TestIssueUploadKeysUnderSubject(t *testing.T) {
	issuer := new(mockIssuer)
	issuer.On("PresignUpload", mock.Anything, "users/abc/images/tok.png", "image/png").
		Return(object.Grant{URL: "https://signed", Method: http.MethodPut, Key: "users/abc/images/tok.png"}, nil)

	grant, err := newTestService(issuer).IssueUpload(context.Background(), "abc", "cat.png", "image/png")

	assert.NoError(t, err)
	assert.Equal(t, "users/abc/images/tok.png", grant.Key)
	assert.Equal(t, "https://signed", grant.URL)
	issuer.AssertExpectations(t)
}

func TestIssueUploadDefaultsExtension(t *testing.T) {
	issuer := new(mockIssuer)
	issuer.On("PresignUpload", mock.Anything, "users/abc/images/tok.jpg", "image/jpeg").
		Return(object.Grant{Key: "users/abc/images/tok.jpg"}, nil)

	_, err := newTestService(issuer).IssueUpload(context.Background(), "abc", "README", "image/jpeg")

	assert.NoError(t, err)
	issuer.AssertExpectations(t)
}

func TestForeignKeysNeverReachIssuer(t *testing.T) {
	issuer := new(mockIssuer)
	svc := newTestService(issuer)
	ctx := context.Background()

	_, err := svc.IssueDownload(ctx, "abc", "users/abc2/images/x.jpg")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, "abc", "users/xyz/images/x.jpg")
	assert.ErrorIs(t, err, ErrForbidden)

	issuer.AssertNotCalled(t, "PresignDownload", mock.Anything, mock.Anything)
	issuer.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteWrapsIssuerFailure(t *testing.T) {
	issuer := new(mockIssuer)
	boom := errors.New("access denied")
	issuer.On("Delete", mock.Anything, "users/abc/images/x.jpg").Return(boom)

	err := newTestService(issuer).Delete(context.Background(), "abc", "users/abc/images/x.jpg")

	assert.ErrorIs(t, err, ErrDeleteFailed)
	assert.ErrorIs(t, err, boom)
	issuer.AssertExpectations(t)
}

func TestIssueDownloadOwnedKey(t *testing.T) {
	issuer := new(mockIssuer)
	issuer.On("PresignDownload", mock.Anything, "users/abc/images/x.jpg").
		Return(object.Grant{URL: "https://get", Method: http.MethodGet}, nil)

	grant, err := newTestService(issuer).IssueDownload(context.Background(), "abc", "users/abc/images/x.jpg")

	assert.NoError(t, err)
	assert.Equal(t, "https://get", grant.URL)
	issuer.AssertExpectations(t)
}
