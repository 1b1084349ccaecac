package preferences

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the part of the DynamoDB client the repo uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoRepo stores one item per user, keyed by user_id. Unset attributes are
// left out of the item entirely.
type DynamoRepo struct {
	Client DynamoAPI
	Table  string
}

type dynamoItem struct {
	UserID         string  `dynamodbav:"user_id"`
	Theme          *string `dynamodbav:"theme,omitempty"`
	DisplayName    *string `dynamodbav:"displayName,omitempty"`
	DisplayPicture *string `dynamodbav:"displayPicture,omitempty"`
}

func (r *DynamoRepo) Get(ctx context.Context, userID string) (Preferences, error) {
	out, err := r.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.Table),
		Key:            map[string]types.AttributeValue{"user_id": &types.AttributeValueMemberS{Value: userID}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Preferences{}, fmt.Errorf("dynamodb get item table=%s: %w", r.Table, err)
	}
	if len(out.Item) == 0 {
		return Preferences{}, ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences item: %w", err)
	}
	return Preferences{
		UserID:         userID,
		Theme:          item.Theme,
		DisplayName:    item.DisplayName,
		DisplayPicture: item.DisplayPicture,
	}, nil
}

func (r *DynamoRepo) Put(ctx context.Context, prefs Preferences) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		UserID:         prefs.UserID,
		Theme:          prefs.Theme,
		DisplayName:    prefs.DisplayName,
		DisplayPicture: prefs.DisplayPicture,
	})
	if err != nil {
		return fmt.Errorf("encode preferences item: %w", err)
	}
	if _, err := r.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.Table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb put item table=%s: %w", r.Table, err)
	}
	return nil
}

var _ Repo = (*DynamoRepo)(nil)
