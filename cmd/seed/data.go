package main

type samplePlace struct {
	name        string
	category    string
	city        string
	rating      float64
	description string
}

var samplePlaces = []samplePlace{
	{"Cafe Mocha", "cafe", "Mumbai", 4.5, "Cozy coffee shop with great ambiance and delicious pastries."},
	{"Trishna Restaurant", "restaurant", "Mumbai", 4.8, "Fine dining seafood restaurant with contemporary Indian cuisine."},
	{"Marine Drive", "park", "Mumbai", 4.3, "Iconic waterfront promenade perfect for evening walks."},
	{"Gateway of India", "museum", "Mumbai", 4.2, "Historic monument and popular tourist attraction."},

	{"Blue Tokai Coffee", "cafe", "Delhi", 4.4, "Specialty coffee roasters with excellent single origin brews."},
	{"Karim's", "restaurant", "Delhi", 4.6, "Legendary Mughlai restaurant serving authentic kebabs and biryanis."},
	{"Lodhi Gardens", "park", "Delhi", 4.5, "Beautiful gardens with historical tombs and peaceful walking paths."},
	{"Red Fort", "museum", "Delhi", 4.1, "UNESCO World Heritage site showcasing Mughal architecture."},

	{"Third Wave Coffee", "cafe", "Bangalore", 4.3, "Modern coffee chain known for quality brews and cozy atmosphere."},
	{"MTR Restaurant", "restaurant", "Bangalore", 4.7, "Iconic South Indian restaurant famous for traditional breakfast."},
	{"Cubbon Park", "park", "Bangalore", 4.4, "Large green space in the heart of the city, perfect for jogging."},
	{"Visvesvaraya Museum", "museum", "Bangalore", 4.0, "Interactive science museum great for families and kids."},

	{"Cafe Coffee Day", "cafe", "Chennai", 4.1, "Popular coffee chain with comfortable seating and good wifi."},
	{"Dakshin Restaurant", "restaurant", "Chennai", 4.5, "Upscale restaurant serving authentic South Indian cuisine."},
	{"Marina Beach", "park", "Chennai", 4.2, "One of the longest urban beaches in the world."},
	{"Government Museum", "museum", "Chennai", 3.9, "Historic museum with extensive collection of artifacts."},

	{"German Bakery", "cafe", "Pune", 4.2, "Famous bakery in Koregaon Park known for fresh bread and pastries."},
	{"Shabree Restaurant", "restaurant", "Pune", 4.4, "Traditional Maharashtrian thali restaurant with authentic flavours."},
	{"Shaniwar Wada", "museum", "Pune", 4.0, "Historic fortified palace showcasing Maratha architecture."},
	{"Osho Garden", "park", "Pune", 4.3, "Peaceful meditation garden with beautiful landscaping."},
}

var reviewComments = []string{
	"Amazing service and food! Highly recommend this place.",
	"Very clean and well maintained. Great experience.",
	"Good experience overall. Will visit again.",
	"Food was tasty and fresh. Loved the ambience.",
	"Staff was polite and helpful. Quick service.",
	"Worth the price. Good quality and quantity.",
	"Nice ambience and comfortable seating.",
	"Could improve service speed during peak hours.",
	"Average experience. Nothing special but decent.",
	"Loved the place! Perfect for family gatherings.",
	"Will definitely visit again. Exceeded expectations.",
	"Decent place with good facilities.",
	"Good for family outings. Kids friendly.",
	"Location is convenient and easy to find.",
	"Highly recommended! Best in the area.",
}

var reviewerNames = []string{
	"Rahul Sharma", "Amit Kumar", "Sneha Patel", "Pooja Singh", "Karan Mehta",
	"Neha Gupta", "Rohit Verma", "Anjali Reddy", "Vikas Joshi", "Priya Desai",
	"Sahil Khan", "Komal Agarwal", "Nikhil Rao", "Isha Malhotra", "Aditya Nair",
}

var ownerReplies = []string{
	"Thank you for your wonderful feedback!",
	"We're glad you enjoyed your visit!",
	"Thanks for choosing us. Hope to see you again!",
	"We appreciate your kind words!",
	"Thank you! We'll continue to serve you better.",
	"We're happy you had a great experience!",
	"Thanks for the review. We value your feedback!",
	"We'll work on improving our service speed. Thank you!",
	"Thank you for your honest feedback!",
	"So glad you loved it! Come back soon!",
}
