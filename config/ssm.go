package config

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParametersByPathAPI is the part of the SSM client used to load settings.
type ParametersByPathAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM reads every parameter below path using the default AWS credential
// chain and merges them into config. See MergeParameters.
func LoadSSM(ctx context.Context, config map[string]string, path string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	return MergeParameters(ctx, ssm.NewFromConfig(awsCfg), config, path)
}

// MergeParameters copies the decrypted parameters below path into config,
// keyed by their name without the path prefix (/travel/prod/SESSION_SECRET
// becomes SESSION_SECRET). Values already present in config win, so the
// environment can always override the parameter store.
func MergeParameters(ctx context.Context, client ParametersByPathAPI, config map[string]string, path string) error {
	prefix := strings.TrimSuffix(path, "/") + "/"
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, param := range page.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			if key == "" {
				continue
			}
			if existing, ok := config[key]; ok && existing != "" {
				continue
			}
			config[key] = aws.ToString(param.Value)
			loaded++
		}
	}

	log.Info().Str("path", path).Int("parameters", loaded).Msg("Loaded settings from SSM")
	return nil
}
