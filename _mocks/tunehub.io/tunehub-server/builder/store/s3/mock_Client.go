// Code generated manually to mirror mockery patterns. DO NOT EDIT.

package s3

import (
	context "context"
	io "io"
	http "net/http"
	url "net/url"
	time "time"

	minio "github.com/minio/minio-go/v7"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock for s3.Client.
type MockClient struct {
	mock.Mock
}

type MockClient_Expecter struct {
	mock *mock.Mock
}

func (_m *MockClient) EXPECT() *MockClient_Expecter {
	return &MockClient_Expecter{mock: &_m.Mock}
}

func (_m *MockClient) CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error) {
	ret := _m.Called(ctx, dst, src)

	if rf, ok := ret.Get(0).(func(context.Context, minio.CopyDestOptions, minio.CopySrcOptions) (minio.UploadInfo, error)); ok {
		return rf(ctx, dst, src)
	}

	var r0 minio.UploadInfo
	if rf, ok := ret.Get(0).(func(context.Context, minio.CopyDestOptions, minio.CopySrcOptions) minio.UploadInfo); ok {
		r0 = rf(ctx, dst, src)
	} else {
		r0 = ret.Get(0).(minio.UploadInfo)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, minio.CopyDestOptions, minio.CopySrcOptions) error); ok {
		r1 = rf(ctx, dst, src)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

type MockClient_CopyObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) CopyObject(ctx interface{}, dst interface{}, src interface{}) *MockClient_CopyObject_Call {
	return &MockClient_CopyObject_Call{Call: _e.mock.On("CopyObject", ctx, dst, src)}
}

func (_c *MockClient_CopyObject_Call) Run(run func(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions)) *MockClient_CopyObject_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(minio.CopyDestOptions), args[2].(minio.CopySrcOptions))
	})
	return _c
}

func (_c *MockClient_CopyObject_Call) Return(_a0 minio.UploadInfo, _a1 error) *MockClient_CopyObject_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_CopyObject_Call) RunAndReturn(run func(context.Context, minio.CopyDestOptions, minio.CopySrcOptions) (minio.UploadInfo, error)) *MockClient_CopyObject_Call {
	_c.Call.Return(run)
	return _c
}

func (_m *MockClient) FPutObject(ctx context.Context, bucketName string, objectName string, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	ret := _m.Called(ctx, bucketName, objectName, filePath, opts)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, string, minio.PutObjectOptions) (minio.UploadInfo, error)); ok {
		return rf(ctx, bucketName, objectName, filePath, opts)
	}

	var r0 minio.UploadInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(minio.UploadInfo)
	}
	return r0, ret.Error(1)
}

type MockClient_FPutObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) FPutObject(ctx interface{}, bucketName interface{}, objectName interface{}, filePath interface{}, opts interface{}) *MockClient_FPutObject_Call {
	return &MockClient_FPutObject_Call{Call: _e.mock.On("FPutObject", ctx, bucketName, objectName, filePath, opts)}
}

func (_c *MockClient_FPutObject_Call) Return(_a0 minio.UploadInfo, _a1 error) *MockClient_FPutObject_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_FPutObject_Call) RunAndReturn(run func(context.Context, string, string, string, minio.PutObjectOptions) (minio.UploadInfo, error)) *MockClient_FPutObject_Call {
	_c.Call.Return(run)
	return _c
}

func (_m *MockClient) GetObject(ctx context.Context, bucketName string, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	ret := _m.Called(ctx, bucketName, objectName, opts)

	var r0 *minio.Object
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*minio.Object)
	}
	return r0, ret.Error(1)
}

type MockClient_GetObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) GetObject(ctx interface{}, bucketName interface{}, objectName interface{}, opts interface{}) *MockClient_GetObject_Call {
	return &MockClient_GetObject_Call{Call: _e.mock.On("GetObject", ctx, bucketName, objectName, opts)}
}

func (_c *MockClient_GetObject_Call) Return(_a0 *minio.Object, _a1 error) *MockClient_GetObject_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_m *MockClient) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ret := _m.Called(ctx, bucketName, opts)

	var r0 <-chan minio.ObjectInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(<-chan minio.ObjectInfo)
	}
	return r0
}

type MockClient_ListObjects_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) ListObjects(ctx interface{}, bucketName interface{}, opts interface{}) *MockClient_ListObjects_Call {
	return &MockClient_ListObjects_Call{Call: _e.mock.On("ListObjects", ctx, bucketName, opts)}
}

func (_c *MockClient_ListObjects_Call) Return(_a0 <-chan minio.ObjectInfo) *MockClient_ListObjects_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_m *MockClient) PresignHeader(ctx context.Context, method string, bucketName string, objectName string, expires time.Duration, reqParams url.Values, extraHeaders http.Header) (*url.URL, error) {
	ret := _m.Called(ctx, method, bucketName, objectName, expires, reqParams, extraHeaders)

	var r0 *url.URL
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*url.URL)
	}
	return r0, ret.Error(1)
}

type MockClient_PresignHeader_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) PresignHeader(ctx interface{}, method interface{}, bucketName interface{}, objectName interface{}, expires interface{}, reqParams interface{}, extraHeaders interface{}) *MockClient_PresignHeader_Call {
	return &MockClient_PresignHeader_Call{Call: _e.mock.On("PresignHeader", ctx, method, bucketName, objectName, expires, reqParams, extraHeaders)}
}

func (_c *MockClient_PresignHeader_Call) Return(_a0 *url.URL, _a1 error) *MockClient_PresignHeader_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_m *MockClient) PresignedGetObject(ctx context.Context, bucketName string, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	ret := _m.Called(ctx, bucketName, objectName, expires, reqParams)

	var r0 *url.URL
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*url.URL)
	}
	return r0, ret.Error(1)
}

type MockClient_PresignedGetObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) PresignedGetObject(ctx interface{}, bucketName interface{}, objectName interface{}, expires interface{}, reqParams interface{}) *MockClient_PresignedGetObject_Call {
	return &MockClient_PresignedGetObject_Call{Call: _e.mock.On("PresignedGetObject", ctx, bucketName, objectName, expires, reqParams)}
}

func (_c *MockClient_PresignedGetObject_Call) Return(_a0 *url.URL, _a1 error) *MockClient_PresignedGetObject_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_PresignedGetObject_Call) RunAndReturn(run func(context.Context, string, string, time.Duration, url.Values) (*url.URL, error)) *MockClient_PresignedGetObject_Call {
	_c.Call.Return(run)
	return _c
}

func (_m *MockClient) PresignedPutObject(ctx context.Context, bucketName string, objectName string, expires time.Duration) (*url.URL, error) {
	ret := _m.Called(ctx, bucketName, objectName, expires)

	var r0 *url.URL
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*url.URL)
	}
	return r0, ret.Error(1)
}

type MockClient_PresignedPutObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) PresignedPutObject(ctx interface{}, bucketName interface{}, objectName interface{}, expires interface{}) *MockClient_PresignedPutObject_Call {
	return &MockClient_PresignedPutObject_Call{Call: _e.mock.On("PresignedPutObject", ctx, bucketName, objectName, expires)}
}

func (_c *MockClient_PresignedPutObject_Call) Return(_a0 *url.URL, _a1 error) *MockClient_PresignedPutObject_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_m *MockClient) PutObject(ctx context.Context, bucketName string, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	ret := _m.Called(ctx, bucketName, objectName, reader, objectSize, opts)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, io.Reader, int64, minio.PutObjectOptions) (minio.UploadInfo, error)); ok {
		return rf(ctx, bucketName, objectName, reader, objectSize, opts)
	}

	var r0 minio.UploadInfo
	if rf, ok := ret.Get(0).(func(context.Context, string, string, io.Reader, int64, minio.PutObjectOptions) minio.UploadInfo); ok {
		r0 = rf(ctx, bucketName, objectName, reader, objectSize, opts)
	} else {
		r0 = ret.Get(0).(minio.UploadInfo)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string, io.Reader, int64, minio.PutObjectOptions) error); ok {
		r1 = rf(ctx, bucketName, objectName, reader, objectSize, opts)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

type MockClient_PutObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) PutObject(ctx interface{}, bucketName interface{}, objectName interface{}, reader interface{}, objectSize interface{}, opts interface{}) *MockClient_PutObject_Call {
	return &MockClient_PutObject_Call{Call: _e.mock.On("PutObject", ctx, bucketName, objectName, reader, objectSize, opts)}
}

func (_c *MockClient_PutObject_Call) Run(run func(ctx context.Context, bucketName string, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions)) *MockClient_PutObject_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(string), args[3].(io.Reader), args[4].(int64), args[5].(minio.PutObjectOptions))
	})
	return _c
}

func (_c *MockClient_PutObject_Call) Return(_a0 minio.UploadInfo, _a1 error) *MockClient_PutObject_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_PutObject_Call) RunAndReturn(run func(context.Context, string, string, io.Reader, int64, minio.PutObjectOptions) (minio.UploadInfo, error)) *MockClient_PutObject_Call {
	_c.Call.Return(run)
	return _c
}

func (_m *MockClient) RemoveObject(ctx context.Context, bucketName string, objectName string, opts minio.RemoveObjectOptions) error {
	ret := _m.Called(ctx, bucketName, objectName, opts)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, minio.RemoveObjectOptions) error); ok {
		return rf(ctx, bucketName, objectName, opts)
	}
	return ret.Error(0)
}

type MockClient_RemoveObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) RemoveObject(ctx interface{}, bucketName interface{}, objectName interface{}, opts interface{}) *MockClient_RemoveObject_Call {
	return &MockClient_RemoveObject_Call{Call: _e.mock.On("RemoveObject", ctx, bucketName, objectName, opts)}
}

func (_c *MockClient_RemoveObject_Call) Return(_a0 error) *MockClient_RemoveObject_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockClient_RemoveObject_Call) RunAndReturn(run func(context.Context, string, string, minio.RemoveObjectOptions) error) *MockClient_RemoveObject_Call {
	_c.Call.Return(run)
	return _c
}

func (_m *MockClient) StatObject(ctx context.Context, bucketName string, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	ret := _m.Called(ctx, bucketName, objectName, opts)

	var r0 minio.ObjectInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(minio.ObjectInfo)
	}
	return r0, ret.Error(1)
}

type MockClient_StatObject_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) StatObject(ctx interface{}, bucketName interface{}, objectName interface{}, opts interface{}) *MockClient_StatObject_Call {
	return &MockClient_StatObject_Call{Call: _e.mock.On("StatObject", ctx, bucketName, objectName, opts)}
}

func (_c *MockClient_StatObject_Call) Return(_a0 minio.ObjectInfo, _a1 error) *MockClient_StatObject_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_m *MockClient) UploadAndValidate(ctx context.Context, bucketName string, objectName string, reader io.Reader, objectSize int64) (minio.UploadInfo, error) {
	ret := _m.Called(ctx, bucketName, objectName, reader, objectSize)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, io.Reader, int64) (minio.UploadInfo, error)); ok {
		return rf(ctx, bucketName, objectName, reader, objectSize)
	}

	var r0 minio.UploadInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(minio.UploadInfo)
	}
	return r0, ret.Error(1)
}

type MockClient_UploadAndValidate_Call struct {
	*mock.Call
}

func (_e *MockClient_Expecter) UploadAndValidate(ctx interface{}, bucketName interface{}, objectName interface{}, reader interface{}, objectSize interface{}) *MockClient_UploadAndValidate_Call {
	return &MockClient_UploadAndValidate_Call{Call: _e.mock.On("UploadAndValidate", ctx, bucketName, objectName, reader, objectSize)}
}

func (_c *MockClient_UploadAndValidate_Call) Return(_a0 minio.UploadInfo, _a1 error) *MockClient_UploadAndValidate_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockClient_UploadAndValidate_Call) RunAndReturn(run func(context.Context, string, string, io.Reader, int64) (minio.UploadInfo, error)) *MockClient_UploadAndValidate_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mockObj := &MockClient{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}
