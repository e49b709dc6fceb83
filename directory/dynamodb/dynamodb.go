// Package dynamodb reads the user directory from a DynamoDB table.
//
// Items are expected to carry the attributes written by the application
// backend:
//
//	uid          (S, partition key)
//	username     (S)
//	name         (S, optional display name)
//	profileImage (S, optional)
//
// Load scans the whole table with the SDK paginator and returns the users
// sorted by ID so that result ordering does not depend on scan order.
package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/usersearch/directory"
	"github.com/hupe1980/usersearch/model"
)

// Client is the interface for DynamoDB operations.
type Client interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Attribute names.
const (
	AttrID           = "uid"
	AttrUsername     = "username"
	AttrName         = "name"
	AttrProfileImage = "profileImage"
)

// Source scans a table.
type Source struct {
	client   Client
	table    string
	pageSize int32
}

// NewSource creates a Source. pageSize <= 0 lets DynamoDB choose.
func NewSource(client Client, table string, pageSize int32) *Source {
	return &Source{client: client, table: table, pageSize: pageSize}
}

// New loads the default AWS config chain and returns a Source for table.
// region may be empty.
func New(ctx context.Context, table, region string) (*Source, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load config: %w", err)
	}
	return NewSource(dynamodb.NewFromConfig(cfg), table, 0), nil
}

// Load scans the table and returns users sorted by ID.
func (s *Source) Load(ctx context.Context) ([]model.User, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String("#id, #u, #n, #p"),
		ExpressionAttributeNames: map[string]string{
			"#id": AttrID,
			"#u":  AttrUsername,
			"#n":  AttrName, // reserved word
			"#p":  AttrProfileImage,
		},
	}
	if s.pageSize > 0 {
		input.Limit = aws.Int32(s.pageSize)
	}

	users := []model.User{}

	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan %s: %w", s.table, err)
		}
		for _, item := range page.Items {
			u, err := decodeUser(item)
			if err != nil {
				return nil, err
			}
			users = append(users, u)
		}
	}

	directory.SortByID(users)
	return users, nil
}

// Put writes users one item at a time.
func (s *Source) Put(ctx context.Context, users []model.User) error {
	for _, u := range users {
		_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.table),
			Item:      encodeUser(u),
		})
		if err != nil {
			return fmt.Errorf("dynamodb: put %s: %w", u.ID, err)
		}
	}
	return nil
}

func encodeUser(u model.User) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		AttrID:       &types.AttributeValueMemberS{Value: u.ID},
		AttrUsername: &types.AttributeValueMemberS{Value: u.Username},
	}
	if u.DisplayName != "" {
		item[AttrName] = &types.AttributeValueMemberS{Value: u.DisplayName}
	}
	if u.ProfileImage != "" {
		item[AttrProfileImage] = &types.AttributeValueMemberS{Value: u.ProfileImage}
	}
	return item
}

func decodeUser(item map[string]types.AttributeValue) (model.User, error) {
	id, ok := item[AttrID].(*types.AttributeValueMemberS)
	if !ok {
		return model.User{}, fmt.Errorf("dynamodb: item without string %s attribute", AttrID)
	}
	username, ok := item[AttrUsername].(*types.AttributeValueMemberS)
	if !ok {
		return model.User{}, fmt.Errorf("dynamodb: user %s: missing %s attribute", id.Value, AttrUsername)
	}

	u := model.User{ID: id.Value, Username: username.Value}
	if v, ok := item[AttrName].(*types.AttributeValueMemberS); ok {
		u.DisplayName = v.Value
	}
	if v, ok := item[AttrProfileImage].(*types.AttributeValueMemberS); ok {
		u.ProfileImage = v.Value
	}
	return u, nil
}
