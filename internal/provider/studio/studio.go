package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/transport/client"
)

const (
	createPath = "/v5/create-art"
	statusPath = "/app/api/v2/user_activity/order-status"

	// StatusCodeComplete 订单完成时的状态码
	StatusCodeComplete = 200
)

// Client 图像生成服务客户端
type Client struct {
	api *client.Client
}

// NewClient 创建图像生成服务客户端
func NewClient(api *client.Client) *Client {
	return &Client{api: api}
}

// orderID 兼容字符串和数字两种订单 ID
type orderID string

func (o *orderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = orderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*o = orderID(n.String())
	return nil
}

type createResponse struct {
	Data *struct {
		OrderID orderID `json:"order_id"`
	} `json:"data"`
}

// OrderStatus 订单状态
type OrderStatus struct {
	Code int
	URLs []string
}

// Complete 订单是否已完成
func (s *OrderStatus) Complete() bool {
	return s.Code == StatusCodeComplete
}

type statusResponse struct {
	Code       int `json:"order_status_code"`
	OutputURLs []struct {
		URL string `json:"url"`
	} `json:"output_urls"`
}

// CreateJob 提交生成任务，返回订单 ID。
//
// 传输层成功但响应中没有 data.order_id 时返回 domain.ErrInvalidToken。
func (c *Client) CreateJob(ctx context.Context, headers map[string]string, req domain.GenerationRequest) (string, error) {
	var resp createResponse
	if err := c.api.PostJSON(ctx, createPath, req, headers, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil || resp.Data.OrderID == "" {
		return "", domain.ErrInvalidToken
	}
	return string(resp.Data.OrderID), nil
}

// GetOrderStatus 查询订单状态
func (c *Client) GetOrderStatus(ctx context.Context, headers map[string]string, id string) (*OrderStatus, error) {
	var resp statusResponse
	path := fmt.Sprintf("%s?order_id=%s", statusPath, url.QueryEscape(id))
	if err := c.api.GetJSON(ctx, path, headers, &resp); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(resp.OutputURLs))
	for _, out := range resp.OutputURLs {
		urls = append(urls, out.URL)
	}
	return &OrderStatus{Code: resp.Code, URLs: urls}, nil
}
