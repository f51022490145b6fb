package main

import (
	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/storage"
)

// audioPublicPrefix is where the local audio cache is served from.
const audioPublicPrefix = "/media"

// InitStorage selects and returns the configured audio cache backend
func InitStorage(env Environment) storage.Storage {
	if env.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			env.SpacesEndpoint,
			env.SpacesRegion,
			env.SpacesBucket,
			env.SpacesCDNURL,
			env.SpacesAccessKey,
			env.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces audio cache")
		}
		log.Info().Str("cdn", env.SpacesCDNURL).Msg("using Spaces audio cache")
		return spacesStorage
	}

	local := storage.NewLocalStorage(env.AudioCacheDir, audioPublicPrefix)
	log.Info().Str("dir", env.AudioCacheDir).Msg("using local audio cache")
	return local
}
