// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package gateway manages consumer access to a deployed AI gateway: API
// Management subscriptions (the per-team keys that front the model
// endpoints) and token usage reporting from the gateway's Log Analytics
// workspace.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/apimanagement/armapimanagement/v2"
	"github.com/Azure/foundrylib/pkg/to"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionState is the lifecycle state of a gateway subscription.
type SubscriptionState string

const (
	StateActive    SubscriptionState = "active"
	StateSuspended SubscriptionState = "suspended"
	StateCancelled SubscriptionState = "cancelled"
	StateExpired   SubscriptionState = "expired"
	StateSubmitted SubscriptionState = "submitted"
	StateRejected  SubscriptionState = "rejected"
)

// Subscription is a gateway subscription with its keys redacted. Use Keys
// to retrieve the key material.
type Subscription struct {
	ID             string
	DisplayName    string
	Scope          string
	State          SubscriptionState
	OwnerID        string
	CreatedDate    *time.Time
	StartDate      *time.Time
	ExpirationDate *time.Time
}

// Keys is the key material of a gateway subscription.
type Keys struct {
	Primary   string
	Secondary string
}

// Client manages subscriptions of one API Management service.
// Do not create this struct directly, use NewClient instead.
type Client struct {
	apim          *armapimanagement.SubscriptionClient
	resourceGroup string
	serviceName   string
	log           *zap.Logger
}

// ClientOptions are the options for NewClient.
// A nil options struct selects the defaults.
type ClientOptions struct {
	ClientOptions *arm.ClientOptions
	Logger        *zap.Logger
}

// NewClient creates a new Client for the named API Management service.
func NewClient(subscriptionID, resourceGroup, serviceName string, cred azcore.TokenCredential, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = new(ClientOptions)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	apim, err := armapimanagement.NewSubscriptionClient(subscriptionID, cred, opts.ClientOptions)
	if err != nil {
		return nil, fmt.Errorf("gateway.NewClient: %w", err)
	}
	return &Client{
		apim:          apim,
		resourceGroup: resourceGroup,
		serviceName:   serviceName,
		log:           log,
	}, nil
}

// CreateRequest describes a new gateway subscription.
type CreateRequest struct {
	// ID is the subscription identifier (sid). Generated when empty.
	ID          string
	DisplayName string
	// Scope is the APIM scope the subscription grants access to,
	// e.g. "/products/llm-api" or "/apis".
	Scope   string
	OwnerID string
}

// Create creates a new active subscription.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Subscription, error) {
	sid := req.ID
	if sid == "" {
		sid = "sub-" + uuid.NewString()[:8]
	}
	props := &armapimanagement.SubscriptionCreateParameterProperties{
		DisplayName: to.Ptr(req.DisplayName),
		Scope:       to.Ptr(req.Scope),
		State:       to.Ptr(armapimanagement.SubscriptionStateActive),
	}
	if req.OwnerID != "" {
		props.OwnerID = to.Ptr(req.OwnerID)
	}
	resp, err := c.apim.CreateOrUpdate(ctx, c.resourceGroup, c.serviceName, sid, armapimanagement.SubscriptionCreateParameters{
		Properties: props,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("Client.Create: %w", err)
	}
	c.log.Info("gateway subscription created", zap.String("sid", sid), zap.String("scope", req.Scope))
	return subscriptionFromContract(resp.SubscriptionContract), nil
}

// Get returns the subscription with the given id.
func (c *Client) Get(ctx context.Context, sid string) (*Subscription, error) {
	resp, err := c.apim.Get(ctx, c.resourceGroup, c.serviceName, sid, nil)
	if err != nil {
		return nil, fmt.Errorf("Client.Get: %w", err)
	}
	return subscriptionFromContract(resp.SubscriptionContract), nil
}

// ListOptions filter a List call.
type ListOptions struct {
	// Search matches against subscription display names.
	Search string
	// State filters to one lifecycle state.
	State SubscriptionState
	Top   int32
	Skip  int32
}

// List returns subscriptions matching the options.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]*Subscription, error) {
	listOpts := &armapimanagement.SubscriptionClientListOptions{}
	if f := buildListFilter(opts); f != "" {
		listOpts.Filter = to.Ptr(f)
	}
	if opts.Top > 0 {
		listOpts.Top = to.Ptr(opts.Top)
	}
	if opts.Skip > 0 {
		listOpts.Skip = to.Ptr(opts.Skip)
	}

	res := make([]*Subscription, 0)
	pager := c.apim.NewListPager(c.resourceGroup, c.serviceName, listOpts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("Client.List: %w", err)
		}
		for _, contract := range page.Value {
			if contract == nil {
				continue
			}
			res = append(res, subscriptionFromContract(*contract))
		}
	}
	return res, nil
}

// Suspend moves the subscription to the suspended state, cutting off its keys.
func (c *Client) Suspend(ctx context.Context, sid string) (*Subscription, error) {
	return c.setState(ctx, sid, armapimanagement.SubscriptionStateSuspended)
}

// Activate moves a suspended subscription back to active.
func (c *Client) Activate(ctx context.Context, sid string) (*Subscription, error) {
	return c.setState(ctx, sid, armapimanagement.SubscriptionStateActive)
}

func (c *Client) setState(ctx context.Context, sid string, state armapimanagement.SubscriptionState) (*Subscription, error) {
	resp, err := c.apim.Update(ctx, c.resourceGroup, c.serviceName, sid, "*", armapimanagement.SubscriptionUpdateParameters{
		Properties: &armapimanagement.SubscriptionUpdateParameterProperties{
			State: to.Ptr(state),
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("Client.setState: %w", err)
	}
	c.log.Info("gateway subscription state changed", zap.String("sid", sid), zap.String("state", string(state)))
	return subscriptionFromContract(resp.SubscriptionContract), nil
}

// Delete removes the subscription.
func (c *Client) Delete(ctx context.Context, sid string) error {
	if _, err := c.apim.Delete(ctx, c.resourceGroup, c.serviceName, sid, "*", nil); err != nil {
		return fmt.Errorf("Client.Delete: %w", err)
	}
	c.log.Info("gateway subscription deleted", zap.String("sid", sid))
	return nil
}

// Keys returns the subscription's key material.
func (c *Client) Keys(ctx context.Context, sid string) (*Keys, error) {
	resp, err := c.apim.ListSecrets(ctx, c.resourceGroup, c.serviceName, sid, nil)
	if err != nil {
		return nil, fmt.Errorf("Client.Keys: %w", err)
	}
	return &Keys{
		Primary:   to.ValOrZero(resp.PrimaryKey),
		Secondary: to.ValOrZero(resp.SecondaryKey),
	}, nil
}

// RegenerateKeys regenerates both keys and returns the new material.
func (c *Client) RegenerateKeys(ctx context.Context, sid string) (*Keys, error) {
	if _, err := c.apim.RegeneratePrimaryKey(ctx, c.resourceGroup, c.serviceName, sid, nil); err != nil {
		return nil, fmt.Errorf("Client.RegenerateKeys: %w", err)
	}
	if _, err := c.apim.RegenerateSecondaryKey(ctx, c.resourceGroup, c.serviceName, sid, nil); err != nil {
		return nil, fmt.Errorf("Client.RegenerateKeys: %w", err)
	}
	c.log.Info("gateway subscription keys regenerated", zap.String("sid", sid))
	return c.Keys(ctx, sid)
}

// buildListFilter assembles the OData filter for a List call.
func buildListFilter(opts ListOptions) string {
	parts := make([]string, 0, 2)
	if opts.Search != "" {
		parts = append(parts, fmt.Sprintf("contains(properties/displayName, '%s')", strings.ReplaceAll(opts.Search, "'", "''")))
	}
	if opts.State != "" {
		parts = append(parts, fmt.Sprintf("properties/state eq '%s'", opts.State))
	}
	return strings.Join(parts, " and ")
}

func subscriptionFromContract(contract armapimanagement.SubscriptionContract) *Subscription {
	sub := &Subscription{
		ID: to.ValOrZero(contract.Name),
	}
	props := contract.Properties
	if props == nil {
		return sub
	}
	sub.DisplayName = to.ValOrZero(props.DisplayName)
	sub.Scope = to.ValOrZero(props.Scope)
	sub.OwnerID = to.ValOrZero(props.OwnerID)
	sub.CreatedDate = props.CreatedDate
	sub.StartDate = props.StartDate
	sub.ExpirationDate = props.ExpirationDate
	if props.State != nil {
		sub.State = stateFromContract(*props.State)
	} else {
		sub.State = StateActive
	}
	return sub
}

func stateFromContract(state armapimanagement.SubscriptionState) SubscriptionState {
	switch state {
	case armapimanagement.SubscriptionStateSuspended:
		return StateSuspended
	case armapimanagement.SubscriptionStateCancelled:
		return StateCancelled
	case armapimanagement.SubscriptionStateExpired:
		return StateExpired
	case armapimanagement.SubscriptionStateSubmitted:
		return StateSubmitted
	case armapimanagement.SubscriptionStateRejected:
		return StateRejected
	default:
		return StateActive
	}
}
